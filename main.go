package main

import "github.com/ValentinKolb/avlkv/cmd"

func main() {
	cmd.Execute()
}
