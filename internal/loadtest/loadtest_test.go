package loadtest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/activities/internal/adapters/http/api"
	service "github.com/okian/activities/internal/app"
	"github.com/okian/activities/internal/domain/activity"
	"github.com/okian/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newService(opts ...service.Option) *service.Service {
	svc, err := service.New(opts...)
	So(err, ShouldBeNil)
	return svc
}

func newTestServer(opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := newService(opts...)
	_ = svc.Start(context.Background())

	mux := http.NewServeMux()
	server := api.NewServer(svc, svc)
	server.Register(context.Background(), mux)
	return httptest.NewServer(server.Handler(mux)), svc
}

func testConfig(baseURL, name string, participants int) *Config {
	return &Config{
		BaseURL:      baseURL,
		Activity:     name,
		Participants: participants,
		Workers:      8,
		Timeout:      5 * time.Second,
	}
}

func TestRun(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a running activity service", t, func() {
		ctx := context.Background()
		ts, svc := newTestServer()
		defer ts.Close()

		before, err := svc.Activity(ctx, "Chess Club")
		So(err, ShouldBeNil)

		Convey("When the load test runs against Chess Club", func() {
			stats, err := Run(ctx, testConfig(ts.URL, "Chess Club", 50))

			Convey("Then every signup and unregister succeeds", func() {
				So(err, ShouldBeNil)
				So(stats.ParticipantsGenerated, ShouldEqual, 50)
				So(stats.SignupsSuccessful, ShouldEqual, 50)
				So(stats.SignupsFailed, ShouldEqual, 0)
				So(stats.DuplicateRejected, ShouldBeTrue)
				So(stats.UnregistersSuccessful, ShouldEqual, 50)
				So(stats.UnregistersFailed, ShouldEqual, 0)
				So(stats.Duration > 0, ShouldBeTrue)
			})

			Convey("And the activity is left as it was", func() {
				after, err := svc.Activity(ctx, "Chess Club")
				So(err, ShouldBeNil)
				So(after.Participants, ShouldResemble, before.Participants)
			})
		})

		Convey("When the activity name needs escaping", func() {
			stats, err := Run(ctx, testConfig(ts.URL, "Programming Class", 5))

			Convey("Then the run still succeeds", func() {
				So(err, ShouldBeNil)
				So(stats.SignupsSuccessful, ShouldEqual, 5)
			})
		})

		Convey("When the activity does not exist", func() {
			_, err := Run(ctx, testConfig(ts.URL, "Underwater Basket Weaving", 5))

			Convey("Then the run fails before submitting anything", func() {
				So(errors.Is(err, ErrActivityMissing), ShouldBeTrue)
			})
		})

		Convey("When the participant count is negative", func() {
			stats, err := Run(ctx, testConfig(ts.URL, "Chess Club", -1))

			Convey("Then the run fails with a config error instead of panicking", func() {
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
				So(stats.SignupsSubmitted, ShouldEqual, 0)
				after, _ := svc.Activity(ctx, "Chess Club")
				So(after.Participants, ShouldResemble, before.Participants)
			})
		})

		Convey("When no workers are configured", func() {
			cfg := testConfig(ts.URL, "Gym Class", 3)
			cfg.Workers = 0
			stats, err := Run(ctx, cfg)

			Convey("Then a single worker is used", func() {
				So(err, ShouldBeNil)
				So(cfg.Workers, ShouldEqual, 1)
				So(stats.SignupsSuccessful, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a service that enforces capacity", t, func() {
		ctx := context.Background()
		ts, _ := newTestServer(
			service.WithCatalog(activity.Catalog{
				"Robotics": {
					Description:     "Build robots",
					Schedule:        "Mondays",
					MaxParticipants: 3,
					Participants:    []string{"ada@mergington.edu"},
				},
			}),
			service.WithCapacityEnforcement(true),
		)
		defer ts.Close()

		Convey("When more participants than spots try to sign up", func() {
			stats, err := Run(ctx, testConfig(ts.URL, "Robotics", 6))

			Convey("Then only the free spots are taken and everything is restored", func() {
				So(err, ShouldBeNil)
				So(stats.SignupsSuccessful, ShouldEqual, 2)
				So(stats.SignupsFailed, ShouldEqual, 4)
				So(stats.UnregistersSuccessful, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		Convey("When the load test runs", func() {
			_, err := Run(context.Background(), testConfig(ts.URL, "Chess Club", 1))

			Convey("Then the health check fails", func() {
				So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
			})
		})
	})
}

func TestVerification(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a running activity service", t, func() {
		ctx := context.Background()
		ts, _ := newTestServer()
		defer ts.Close()

		client := newHTTPClient(ts.URL, time.Second)
		cfg := testConfig(ts.URL, "Chess Club", 0)

		original, err := fetchParticipants(ctx, client, "Chess Club")
		So(err, ShouldBeNil)
		So(original, ShouldNotBeEmpty)

		Convey("When an email that never signed up is checked", func() {
			err := verifySignups(ctx, client, cfg, original, []string{"ghost@mergington.edu"})

			Convey("Then verification fails", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
			})
		})

		Convey("When a seeded participant is re-submitted", func() {
			err := verifyDuplicateRejected(ctx, client, cfg, original[0])

			Convey("Then the duplicate is rejected", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a new email is used as the duplicate probe", func() {
			err := verifyDuplicateRejected(ctx, client, cfg, "fresh@mergington.edu")

			Convey("Then verification fails because it was accepted", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
			})
		})

		Convey("When the expected participant set differs", func() {
			err := verifyRestored(ctx, client, cfg, append([]string{"extra@mergington.edu"}, original...))

			Convey("Then verification fails", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
			})
		})
	})
}

func TestGenerateEmails(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a request for synthetic participants", t, func() {
		stats := &Stats{}
		emails := generateEmails(context.Background(), 100, stats)

		Convey("Then every email is unique and in the load test domain", func() {
			So(emails, ShouldHaveLength, 100)
			So(stats.ParticipantsGenerated, ShouldEqual, 100)

			seen := make(map[string]struct{}, len(emails))
			for _, e := range emails {
				So(strings.HasSuffix(e, "@"+EmailDomain), ShouldBeTrue)
				seen[e] = struct{}{}
			}
			So(seen, ShouldHaveLength, 100)
		})
	})
}

func TestResponseMessage(t *testing.T) {
	Convey("Given response bodies from the API", t, func() {
		Convey("Then success bodies yield their message", func() {
			So(responseMessage(true, []byte(`{"message":"Signed up a@x.com for Chess Club"}`)),
				ShouldEqual, "Signed up a@x.com for Chess Club")
		})

		Convey("Then error bodies yield code and message", func() {
			So(responseMessage(false, []byte(`{"code":"activity_full","message":"Activity is full"}`)),
				ShouldEqual, "activity_full: Activity is full")
		})

		Convey("Then anything else is returned raw", func() {
			So(responseMessage(true, []byte("not json")), ShouldEqual, "not json")
			So(responseMessage(false, []byte("")), ShouldEqual, "")
		})
	})
}

func TestPaths(t *testing.T) {
	Convey("Given an activity name with spaces and slashes", t, func() {
		name := "Art & Design/Club"

		Convey("Then the paths escape it as a single segment", func() {
			So(signupPath(name, "a+b@x.com"), ShouldEqual, "/activities/Art%20&%20Design%2FClub/signup?email=a%2Bb%40x.com")
			So(unregisterPath(name, "a@x.com"), ShouldEqual, "/activities/Art%20&%20Design%2FClub/participants?email=a%40x.com")
		})
	})
}
