// Command worker runs the Scheduler (C9) and the retention Cleanup
// service. By default it loops on config.Settings.SchedulerInterval; pass
// -once to run a single pass and exit (useful for cron-driven deploys or
// local debugging).
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/anchorwatch/anchor/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "run a single scheduler pass and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer a.Close()

	if *once {
		log.Println("running single scheduler pass")
		a.Scheduler.RunOnce(ctx)
		return
	}

	a.Cleanup.Start(ctx)
	defer a.Cleanup.Stop()

	a.Scheduler.Start(ctx)
	defer a.Scheduler.Stop()

	log.Printf("worker running, scheduler interval=%s", a.Settings.SchedulerInterval)
	<-ctx.Done()
	log.Println("worker shutting down")
}
