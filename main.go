// Public domain.

package main

import "github.com/swiftarchive/obsselect/internal/selprog"

func main() {
	selprog.Main()
}
