// Package common holds the pieces shared by the command line tool and the
// library packages: the logger factory plugged into dragonboat's logger
// package and the resolved configuration.
package common
