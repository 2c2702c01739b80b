// Package main deadlinks detects broken references in a folder of generated
// html documents.
//
// Usage:
//
//	deadlinks scan public
//	deadlinks scan public blog/post.html
//	deadlinks serve public --addr :8080
package main

func main() {
	Execute()
}
