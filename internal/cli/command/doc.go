// Package command provides the command-line definition of mouse-node.
//
// It uses urfave/cli/v2 for flag parsing. Flags are translated into dotted
// configuration keys and layered over the file and environment by the node
// config loader.
package command
