// Package command defines the sigguard command tree.
//
//   - run: registers the signal dispatcher and supervises a workload
//   - signals: prints the classification table
//   - options: lists the options of run, hidden ones with --all
//   - version: prints build information
//
// Commands use urfave/cli/v2. Options of run are declared through a
// cmdline.Registry so hidden options stay out of help output.
package command
