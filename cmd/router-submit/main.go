// router-submit pushes a single job onto a request queue and waits for the
// worker's outcome message. Useful for smoke tests and manual operation.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dd0wney/cluso-router/pkg/transport"
)

func main() {
	jobType := flag.String("type", "map", "Job type: map or tour")
	file := flag.String("file", "-", "Request payload JSON file ('-' for stdin)")
	mapRequestAddr := flag.String("map-request", "tcp://127.0.0.1:5741", "Map request queue address")
	mapResponseAddr := flag.String("map-response", "tcp://127.0.0.1:5742", "Map response queue address")
	tourRequestAddr := flag.String("tour-request", "tcp://127.0.0.1:5743", "Tour request queue address")
	tourResponseAddr := flag.String("tour-response", "tcp://127.0.0.1:5744", "Tour response queue address")
	timeout := flag.Duration("timeout", 5*time.Minute, "How long to wait for the outcome")
	flag.Parse()

	var requestAddr, responseAddr string
	switch *jobType {
	case "map":
		requestAddr, responseAddr = *mapRequestAddr, *mapResponseAddr
	case "tour":
		requestAddr, responseAddr = *tourRequestAddr, *tourResponseAddr
	default:
		fmt.Fprintf(os.Stderr, "unknown job type: %s\n", *jobType)
		os.Exit(2)
	}

	payload, err := readPayload(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read payload: %v\n", err)
		os.Exit(1)
	}

	factory := transport.NewMangosSocketFactory()

	// The worker dials the response address, so the submitter owns the
	// listening end of that queue. Bind it before sending to avoid a race
	// on fast jobs.
	in, err := factory.NewPullSocket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pull socket: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()
	if err := in.Listen(responseAddr); err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen on %s: %v\n", responseAddr, err)
		os.Exit(1)
	}
	if err := in.SetRecvDeadline(*timeout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set receive deadline: %v\n", err)
		os.Exit(1)
	}

	out, err := factory.NewPushSocket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create push socket: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := transport.DialWithRetry(out, requestAddr, 5, 2*time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "failed to dial %s: %v\n", requestAddr, err)
		os.Exit(1)
	}

	if err := out.Send(payload); err != nil {
		fmt.Fprintf(os.Stderr, "failed to send request: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "job submitted to %s, waiting for outcome...\n", requestAddr)

	outcome, err := in.Recv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "no outcome received: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(outcome))
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
