// Command stationctl is the customer and administrator client of the car
// service station API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	env := &env{stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}

	err := newRootCmd(env).ExecuteContext(ctx)
	env.close()
	stop()

	if err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
