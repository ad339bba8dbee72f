package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	repository "github.com/okian/activities/internal/adapters/repository"
	"github.com/okian/activities/internal/domain/activity"
	"github.com/okian/activities/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(opts ...repository.Option) *repository.MemoryStore {
	store, err := repository.NewMemoryStore(opts...)
	So(err, ShouldBeNil)
	return store
}

func smallCatalog() activity.Catalog {
	return activity.Catalog{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 3,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Empty Club": {
			Description:     "Nobody yet",
			Schedule:        "Never",
			MaxParticipants: 5,
		},
	}
}

func TestMemoryStore_List(t *testing.T) {
	Convey("Given a store with the default catalog", t, func() {
		ctx := context.Background()
		store := newStore()

		Convey("When listing activities", func() {
			list, err := store.List(ctx)

			Convey("Then every seeded activity is returned with a participant list", func() {
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, len(activity.DefaultCatalog()))
				for _, a := range list {
					So(a.Participants, ShouldNotBeNil)
				}
				So(list["Chess Club"].Participants, ShouldContain, "michael@mergington.edu")
			})

			Convey("And mutating the result does not leak into the store", func() {
				chess := list["Chess Club"]
				chess.Participants[0] = "intruder@example.com"
				delete(list, "Gym Class")

				again, _ := store.List(ctx)
				So(again["Chess Club"].Participants[0], ShouldEqual, "michael@mergington.edu")
				So(again, ShouldContainKey, "Gym Class")
			})
		})

		Convey("When a custom catalog is given", func() {
			seed := smallCatalog()
			custom := newStore(repository.WithCatalog(seed))
			seed["Chess Club"] = activity.Activity{}

			Convey("Then the store owns its own copy", func() {
				a, err := custom.Get(ctx, "Chess Club")
				So(err, ShouldBeNil)
				So(len(a.Participants), ShouldEqual, 2)
				list, _ := custom.List(ctx)
				So(list.Names(), ShouldResemble, []string{"Chess Club", "Empty Club"})
			})
		})
	})
}

func TestMemoryStore_InvalidSeed(t *testing.T) {
	Convey("Given seed catalogs that break the registry rules", t, func() {
		cases := []struct {
			name    string
			catalog activity.Catalog
		}{
			{"duplicate participant", activity.Catalog{
				"A": {MaxParticipants: 5, Participants: []string{"x@e.com", "x@e.com"}},
			}},
			{"empty participant", activity.Catalog{
				"A": {MaxParticipants: 5, Participants: []string{""}},
			}},
			{"blank activity name", activity.Catalog{
				" ": {MaxParticipants: 5},
			}},
			{"negative capacity", activity.Catalog{
				"A": {MaxParticipants: -1},
			}},
		}

		for _, tc := range cases {
			Convey("When the store is built with a "+tc.name, func() {
				store, err := repository.NewMemoryStore(repository.WithCatalog(tc.catalog))

				Convey("Then construction fails with an invalid seed error", func() {
					So(store, ShouldBeNil)
					So(errors.Is(err, activity.ErrInvalidSeed), ShouldBeTrue)
				})
			})
		}
	})

	Convey("Given a valid seed with a whitespace participant", t, func() {
		ctx := context.Background()
		store := newStore(repository.WithCatalog(activity.Catalog{
			"A": {MaxParticipants: 5, Participants: []string{"x@e.com", "   "}},
		}))

		Convey("When the first participant is unregistered", func() {
			a, err := store.Unregister(ctx, "A", "x@e.com")

			Convey("Then the email is no longer listed", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldNotContain, "x@e.com")
				So(a.Participants, ShouldResemble, []string{"   "})
			})
		})
	})
}

func TestMemoryStore_Signup(t *testing.T) {
	Convey("Given a store with a small catalog", t, func() {
		ctx := context.Background()
		store := newStore(repository.WithCatalog(smallCatalog()))

		Convey("When signing up a new participant", func() {
			a, err := store.Signup(ctx, "Chess Club", "new_student@example.com")

			Convey("Then the participant is appended exactly once", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldResemble, []string{
					"michael@mergington.edu", "daniel@mergington.edu", "new_student@example.com",
				})
				got, _ := store.Get(ctx, "Chess Club")
				So(got.Participants, ShouldResemble, a.Participants)
			})
		})

		Convey("When signing up an already registered participant", func() {
			_, err := store.Signup(ctx, "Chess Club", "michael@mergington.edu")

			Convey("Then it is rejected and the list is unchanged", func() {
				So(errors.Is(err, repository.ErrAlreadySignedUp), ShouldBeTrue)
				So(activity.IsConflict(err), ShouldBeTrue)
				got, _ := store.Get(ctx, "Chess Club")
				So(got.Participants, ShouldResemble, []string{"michael@mergington.edu", "daniel@mergington.edu"})
			})
		})

		Convey("When signing up for an unknown activity", func() {
			_, err := store.Signup(ctx, "Underwater Basket Weaving", "a@example.com")

			Convey("Then it is a not-found error", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(activity.IsNotFound(err), ShouldBeTrue)
			})
		})

		Convey("When the activity is at capacity and capacity is not enforced", func() {
			_, err := store.Signup(ctx, "Chess Club", "third@example.com")
			So(err, ShouldBeNil)
			_, err = store.Signup(ctx, "Chess Club", "fourth@example.com")

			Convey("Then signups still succeed", func() {
				So(err, ShouldBeNil)
				got, _ := store.Get(ctx, "Chess Club")
				So(len(got.Participants), ShouldEqual, 4)
			})
		})

		Convey("When the activity is at capacity and capacity is enforced", func() {
			strict := newStore(
				repository.WithCatalog(smallCatalog()),
				repository.WithCapacityEnforcement(true),
			)
			_, err := strict.Signup(ctx, "Chess Club", "third@example.com")
			So(err, ShouldBeNil)
			_, err = strict.Signup(ctx, "Chess Club", "fourth@example.com")

			Convey("Then the signup is rejected as full", func() {
				So(errors.Is(err, repository.ErrActivityFull), ShouldBeTrue)
				got, _ := strict.Get(ctx, "Chess Club")
				So(len(got.Participants), ShouldEqual, 3)
			})
		})
	})
}

func TestMemoryStore_Unregister(t *testing.T) {
	Convey("Given a store with a small catalog", t, func() {
		ctx := context.Background()
		store := newStore(repository.WithCatalog(smallCatalog()))

		Convey("When removing a seeded participant", func() {
			a, err := store.Unregister(ctx, "Chess Club", "michael@mergington.edu")

			Convey("Then the rest of the list keeps its order", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldResemble, []string{"daniel@mergington.edu"})
			})
		})

		Convey("When removing someone who is not registered", func() {
			_, err := store.Unregister(ctx, "Chess Club", "not@here.com")

			Convey("Then it is rejected and the list is unchanged", func() {
				So(errors.Is(err, repository.ErrNotSignedUp), ShouldBeTrue)
				got, _ := store.Get(ctx, "Chess Club")
				So(got.Participants, ShouldResemble, []string{"michael@mergington.edu", "daniel@mergington.edu"})
			})
		})

		Convey("When removing from an empty activity", func() {
			_, err := store.Unregister(ctx, "Empty Club", "a@example.com")

			Convey("Then it is rejected as not signed up", func() {
				So(errors.Is(err, repository.ErrNotSignedUp), ShouldBeTrue)
			})
		})

		Convey("When removing from an unknown activity", func() {
			_, err := store.Unregister(ctx, "Nope", "a@example.com")

			Convey("Then it is a not-found error", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When signing up and then unregistering the same email", func() {
			before, _ := store.Get(ctx, "Chess Club")
			_, err := store.Signup(ctx, "Chess Club", "round@trip.com")
			So(err, ShouldBeNil)
			_, err = store.Unregister(ctx, "Chess Club", "round@trip.com")
			So(err, ShouldBeNil)

			Convey("Then the participant set is back to where it started", func() {
				after, _ := store.Get(ctx, "Chess Club")
				So(after.Participants, ShouldResemble, before.Participants)
			})
		})
	})
}

func TestMemoryStore_Concurrency(t *testing.T) {
	Convey("Given a store shared by many goroutines", t, func() {
		ctx := context.Background()
		store := newStore(repository.WithCatalog(smallCatalog()))
		const workers = 64

		Convey("When they all sign up the same email", func() {
			var ok atomic.Int64
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.Signup(ctx, "Empty Club", "race@example.com"); err == nil {
						ok.Add(1)
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one signup wins", func() {
				So(ok.Load(), ShouldEqual, int64(1))
				got, _ := store.Get(ctx, "Empty Club")
				So(got.Participants, ShouldResemble, []string{"race@example.com"})
			})
		})

		Convey("When they sign up distinct emails while others read", func() {
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					_, _ = store.Signup(ctx, "Chess Club", fmt.Sprintf("student%d@example.com", i))
				}(i)
				go func() {
					defer wg.Done()
					_, _ = store.List(ctx)
				}()
			}
			wg.Wait()

			Convey("Then every signup is recorded", func() {
				got, _ := store.Get(ctx, "Chess Club")
				So(len(got.Participants), ShouldEqual, workers+2)
			})
		})
	})

	Convey("Given concurrent signups and unregisters on one activity", t, func() {
		ctx := context.Background()
		store := newStore(repository.WithCatalog(activity.Catalog{
			"Gauge Club": {MaxParticipants: 0},
		}))
		const workers = 32

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				email := fmt.Sprintf("g%d@example.com", i)
				_, _ = store.Signup(ctx, "Gauge Club", email)
				if i%2 == 0 {
					_, _ = store.Unregister(ctx, "Gauge Club", email)
				}
			}(i)
		}
		wg.Wait()

		Convey("Then the participant gauge matches the final list", func() {
			got, _ := store.Get(ctx, "Gauge Club")
			So(len(got.Participants), ShouldEqual, workers/2)

			v, ok, err := metrics.Value(metrics.GetRegistry(),
				"activities_registry_activity_participants", map[string]string{"activity": "Gauge Club"})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, float64(workers/2))
		})
	})
}
