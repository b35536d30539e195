package main

import "github.com/Belphemur/TVApi/internal/cmd"

func main() {
	cmd.Execute()
}
