package main

import (
	"fmt"
	"time"

	"github.com/almahoozi/cligen/dispatch"
)

//go:generate go run github.com/almahoozi/cligen --table=commands --default=greet --builtins
var commands = []dispatch.Command{
	{ShortFlag: 'g', LongFlag: "greet", Action: dispatch.ActionFunc(greet), Description: "Prints a greeting."},
	{ShortFlag: 't', LongFlag: "time", Action: dispatch.ActionFunc(now), Description: "Prints the current time."},
}

func greet() {
	fmt.Println("Hello from the example CLI")
}

func now() {
	fmt.Println(time.Now().Format(time.RFC3339))
}
