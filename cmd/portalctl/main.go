package main

import "github.com/jrsteele09/go-tutor-portal/cmd/portalctl/cmd"

func main() {
	cmd.Execute()
}
