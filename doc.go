// Package parsnip provides parser combinators and grammar-driven parsing.
//
// The core code is in package 'core', action interpreters are in
// 'interpreters', and some command-line tools are in `cmd`.
package parsnip
