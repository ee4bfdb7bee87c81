package main

import "github.com/KaramelBytes/storelens/cmd"

func main() {
	cmd.Execute()
}
