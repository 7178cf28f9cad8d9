package main

import "github.com/Codelsoft-Microservices/codelsoft-users/cmd"

func main() {
	cmd.Execute()
}
