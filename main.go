package main

import "github.com/inovacc/fixedphrase/cmd"

func main() {
	cmd.Execute()
}
