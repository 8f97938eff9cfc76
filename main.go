package main

import "github.com/frahmantamala/recruitment-management/cmd"

func main() {
	cmd.Execute()
}
