package main

import "github.com/rptrscope/rptrscope/cmd"

func main() {
	cmd.Execute()
}
