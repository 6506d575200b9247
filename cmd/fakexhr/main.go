package main

import cmd "github.com/rohmanhakim/fake-xhr/internal/cli"

func main() {
	cmd.Execute()
}
