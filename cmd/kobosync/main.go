package main

import "github.com/dbsmedya/kobosync/cmd/kobosync/cmd"

func main() {
	cmd.Execute()
}
