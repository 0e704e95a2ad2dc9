package main

import "github.com/frahmantamala/resource-management/cmd"

func main() {
	cmd.Execute()
}
