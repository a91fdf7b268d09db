package main

import "github.com/cratelore/cratelore/cmd"

func main() {
	cmd.Execute()
}
