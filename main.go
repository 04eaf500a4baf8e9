package main

import "github.com/OwlvinAiDevs/OwlvinAi/commands"

func main() {
	commands.Execute()
}
