package main

import "github.com/abhay-gupta-199/kmrl-backend/cmd"

func main() {
	cmd.Execute()
}
