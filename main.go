package main

import "github.com/jarvisdesk/jarvis/cmd"

func main() {
	cmd.Execute()
}
