// Command activities-cli browses a running activities directory from the
// terminal. Day and time-of-day narrowing are sent to the server; category,
// weekend and free-text narrowing are applied locally, so switching those
// flags needs no extra round trip.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/remote"
	"github.com/mergington/activities-api/internal/service"
)

func main() {
	var (
		baseURL    string
		token      string
		day        string
		timeRange  string
		category   string
		query      string
		signup     string
		unregister string
		email      string
		timeout    time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "directory API base URL")
	flag.StringVar(&token, "token", os.Getenv("ACTIVITIES_TOKEN"), "staff bearer token for roster mutations")
	flag.StringVar(&day, "day", "", "narrow to a weekday (e.g. Monday)")
	flag.StringVar(&timeRange, "time", "", "narrow to a window: morning, afternoon or weekend")
	flag.StringVar(&category, "category", "", "narrow to a category: sports, arts, academic, community or technology")
	flag.StringVar(&query, "query", "", "free-text search over name, description and schedule")
	flag.StringVar(&signup, "signup", "", "activity to sign -email up for")
	flag.StringVar(&unregister, "unregister", "", "activity to remove -email from")
	flag.StringVar(&email, "email", "", "participant email for -signup / -unregister")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store := remote.NewActivityStore(baseURL, token, nil)

	if signup != "" || unregister != "" {
		if email == "" {
			log.Fatal("-email is required with -signup or -unregister")
		}
		var (
			message string
			err     error
		)
		if signup != "" {
			message, err = store.Register(ctx, signup, email)
		} else {
			message, err = store.Unregister(ctx, unregister, email)
		}
		if err != nil {
			log.Fatalf("roster change failed: %v", err)
		}
		fmt.Println(message)
		return
	}

	engine := service.NewFilterEngine(store, nil)
	engine.SetDay(day)
	engine.SetTimeRange(models.TimeRange(timeRange))
	engine.SetCategory(models.Category(category))
	engine.SetQuery(query)

	if err := engine.Refetch(ctx); err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	visible := engine.Visible()
	if len(visible) == 0 {
		fmt.Println("no activities match the current filters")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVITY\tCATEGORY\tSCHEDULE\tSPOTS")
	for _, activity := range visible {
		capacity := activity.Capacity()
		spots := fmt.Sprintf("%d/%d", len(activity.Participants), activity.MaxParticipants)
		if capacity.IsFull {
			spots += " (full)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			activity.Name,
			service.ClassifyActivity(activity),
			activity.DisplaySchedule(),
			spots)
	}
	w.Flush()
}
