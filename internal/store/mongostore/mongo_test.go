package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dukerupert/fitcoach/internal/model"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017/ai-fitness-coach", "ai-fitness-coach"},
		{"mongodb://localhost:27017/coach?retryWrites=true", "coach"},
		{"mongodb://localhost:27017", defaultDatabase},
		{"mongodb://localhost:27017/", defaultDatabase},
		{"mongodb+srv://u:p@cluster.example.net/prod", "prod"},
	}
	for _, tt := range tests {
		if got := databaseName(tt.uri); got != tt.want {
			t.Errorf("databaseName(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestParseUserID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseUserID(oid.Hex())
	if err != nil {
		t.Fatalf("parseUserID() error: %v", err)
	}
	if got != oid {
		t.Errorf("parseUserID = %v, want %v", got, oid)
	}

	if _, err := parseUserID("3f1c2d9e-0000-4000-8000-000000000000"); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID", err)
	}
}

func TestDocToModel(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	uid := primitive.NewObjectID()

	u := userDoc{ID: uid, Username: "alice", Email: "a@example.com", Password: "$2a$10$x", CreatedAt: created, UpdatedAt: created}.toModel()
	if u.ID != uid.Hex() {
		t.Errorf("user ID = %q, want %q", u.ID, uid.Hex())
	}
	if u.PasswordHash != "$2a$10$x" {
		t.Errorf("PasswordHash = %q, want stored password field", u.PasswordHash)
	}

	wid := primitive.NewObjectID()
	w := workoutDoc{ID: wid, User: uid, ExerciseName: "Squat", Sets: 4, Reps: 8, Weight: 102.5, CreatedAt: created}.toModel()
	want := model.Workout{
		ID:           wid.Hex(),
		UserID:       uid.Hex(),
		ExerciseName: "Squat",
		Sets:         4,
		Reps:         8,
		Weight:       102.5,
		CreatedAt:    created,
	}
	if w != want {
		t.Errorf("workout = %+v, want %+v", w, want)
	}
}

// openTestDB connects to FITCOACH_TEST_MONGO_URI using a throwaway database.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	uri := os.Getenv("FITCOACH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FITCOACH_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	d, err := Open(ctx, uri)
	if err != nil {
		t.Fatalf("open mongo: %v", err)
	}

	d.db = d.client.Database(fmt.Sprintf("fitcoach_test_%d", time.Now().UnixNano()))
	if err := d.ensureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	t.Cleanup(func() {
		d.db.Drop(context.Background())
		d.Close(context.Background())
	})
	return d
}

func TestUserStoreMongo(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	users := d.Users()

	u, err := users.Create(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if len(u.ID) != 24 {
		t.Errorf("ID = %q, want a 24-char ObjectID hex", u.ID)
	}

	if _, err := users.Create(ctx, "alice2", "alice@example.com", "hash"); !errors.Is(err, model.ErrDuplicateEmail) {
		t.Errorf("duplicate err = %v, want ErrDuplicateEmail", err)
	}

	got, err := users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != u.ID || got.PasswordHash != "hash" {
		t.Errorf("got %+v, want user %s with hash", got, u.ID)
	}

	missing, err := users.GetByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil, got %+v", missing)
	}
}

func TestWorkoutStoreMongo(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	workouts := d.Workouts()
	workouts.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}

	owner := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	for i := 0; i < 12; i++ {
		if _, err := workouts.Create(ctx, owner, fmt.Sprintf("Lift %d", i), 3, 10, float64(i)); err != nil {
			t.Fatalf("create workout %d: %v", i, err)
		}
	}
	if _, err := workouts.Create(ctx, other, "Row", 3, 10, 40); err != nil {
		t.Fatalf("create other workout: %v", err)
	}

	all, err := workouts.List(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 12 {
		t.Fatalf("len = %d, want 12", len(all))
	}
	if all[0].ExerciseName != "Lift 11" || all[11].ExerciseName != "Lift 0" {
		t.Errorf("order = %q..%q, want Lift 11..Lift 0", all[0].ExerciseName, all[11].ExerciseName)
	}

	recent, err := workouts.Recent(ctx, owner, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("recent len = %d, want 10", len(recent))
	}
	if recent[9].ExerciseName != "Lift 2" {
		t.Errorf("recent[9] = %q, want Lift 2", recent[9].ExerciseName)
	}

	none, err := workouts.List(ctx, primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no workouts, got %d", len(none))
	}

	if _, err := workouts.List(ctx, "not-an-id"); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID", err)
	}
}
