package main

import "github.com/GuuhFranca/blibioteca-de-livros-on/internal/cli"

func main() {
	cli.Execute()
}
