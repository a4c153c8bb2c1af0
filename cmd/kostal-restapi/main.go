// The kostal-restapi command runs the inverter REST API script with the base URL
// and password it was built with, ahead of the arguments it was started with.
//
// It is meant to be installed owned by an account dedicated to the script,
// with mode 04711, so invoking users can run it without being able to read it.
package main

// minimise imports to avoid inadvertently calling init or global variable functions

import (
	"log"
	"os"

	"github.com/axeluhl/kostal/internal/launcher"
	"github.com/axeluhl/kostal/internal/message"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kostal-restapi: ")
	log.SetOutput(os.Stderr)
	msg := message.New(log.Default())

	if poisoned(baseURL, password, targetPath) {
		log.Fatal("this program is compiled incorrectly")
	}
	c := launcher.Credentials{BaseURL: baseURL, Password: password}
	if err := c.Validate(); err != nil {
		log.Fatalf("this program is compiled incorrectly: %v", err)
	}
	if err := launcher.CheckTarget(targetPath); err != nil {
		log.Fatalf("this program is compiled incorrectly: %v", err)
	}

	if err := launcher.New(targetPath, c).Exec(os.Args[1:]); err != nil {
		msg.PrintError(err, "cannot launch:")
		os.Exit(1)
	}

	panic("unreachable")
}
