// Package output renders command results as a table, JSON or YAML.
//
// Table output reads struct fields in declaration order and uses the json
// tag as the column name. JSON and YAML are meant for scripting.
package output
