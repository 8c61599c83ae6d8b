package main

import "github.com/MeKo-Tech/pixelcanvas/internal/cmd"

func main() {
	cmd.Execute()
}
