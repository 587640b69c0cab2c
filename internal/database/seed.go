package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/recruitdesk/internal/database/repository"
)

func seedID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+key)).String()
}

func ref(s string) *string { return &s }

type seedFieldSet struct {
	object, name string
	fields       [][2]string
}

var seedFieldSets = []seedFieldSet{
	{"candidate", "compact", [][2]string{
		{"Email", "email"},
		{"Position", "position.title"},
	}},
	{"candidate", "tile", [][2]string{
		{"Email", "email"},
		{"Phone", "phone"},
		{"Position", "position.title"},
		{"Experience", "years_experience"},
	}},
	{"candidate", "detailed", [][2]string{
		{"Email", "email"},
		{"Phone", "phone"},
		{"Education", "education"},
		{"Experience", "years_experience"},
		{"Position", "position.title"},
		{"Account", "position.account.name"},
		{"Owner", "owner_id"},
		{"Created By", "created_by_id"},
		{"Modified By", "last_modified_by_id"},
	}},
	{"job_application", "basic", [][2]string{
		{"Status", "status"},
		{"Stage", "stage"},
	}},
	{"job_application", "full", [][2]string{
		{"Position", "position_title"},
		{"Status", "status"},
		{"Stage", "stage"},
		{"Applied", "applied_at"},
		{"Notes", "notes"},
	}},
}

var seedVariants = map[string]map[string]string{
	"default": {
		"candidate_tile":        "compact",
		"candidate_modal":       "detailed",
		"job_application_modal": "basic",
	},
	"recruiter": {
		"candidate_tile":        "tile",
		"candidate_modal":       "detailed",
		"job_application_modal": "full",
	},
}

// SeedDefaults ensures the field sets and settings variants exist. It is
// idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	sets := repository.NewFieldSetRepo(db)
	for _, fs := range seedFieldSets {
		existing, err := sets.Get(ctx, fs.object, fs.name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		entries := make([]repository.FieldSetEntry, len(fs.fields))
		for i, f := range fs.fields {
			entries[i] = repository.FieldSetEntry{Object: fs.object, Name: fs.name, Ordinal: i, DisplayKey: f[0], Path: f[1]}
		}
		if err := sets.Replace(ctx, fs.object, fs.name, entries); err != nil {
			return err
		}
	}
	for variant, slots := range seedVariants {
		current, err := sets.Variant(ctx, variant)
		if err != nil {
			return err
		}
		for slot, name := range slots {
			if _, ok := current[slot]; ok {
				continue
			}
			if err := sets.SaveChoice(ctx, variant, slot, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Seed loads demo users, accounts, positions and candidates on top of
// SeedDefaults. Ids are derived from names, so running it twice updates the
// same rows instead of duplicating them. Users get short ids ("u-rhea") that
// can be put in the config as user.id.
func Seed(ctx context.Context, db *sql.DB) error {
	if err := SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	users := repository.NewUserRepo(db)
	people := []repository.User{
		{ID: "u-rhea", Name: "Rhea Castillo", Email: "rhea@recruitdesk.test", Role: "recruiter"},
		{ID: "u-tomas", Name: "Tomas Weber", Email: "tomas@recruitdesk.test", Role: "hiring_manager"},
		{ID: "u-ines", Name: "Ines Okafor", Email: "ines@recruitdesk.test", Role: "default"},
	}
	for _, u := range people {
		if err := users.Upsert(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Name, err)
		}
	}
	rhea, tomas, ines := ref(people[0].ID), ref(people[1].ID), ref(people[2].ID)

	accounts := repository.NewAccountRepo(db)
	companies := []repository.Account{
		{ID: seedID("account", "northwind"), Name: "Northwind Traders", AccountNumber: "NW-1001", Industry: "Retail", Phone: "+1 415 555 0100", AnnualRevenueCents: 12_500_000_00, Audit: repository.Audit{OwnerID: rhea, CreatedByID: ines, LastModifiedByID: rhea}},
		{ID: seedID("account", "contoso"), Name: "Contoso Labs", AccountNumber: "CL-2040", Industry: "Biotech", Phone: "+1 617 555 0142", AnnualRevenueCents: 48_000_000_00, Audit: repository.Audit{OwnerID: tomas, CreatedByID: ines, LastModifiedByID: tomas}},
		{ID: seedID("account", "fabrikam"), Name: "Fabrikam Robotics", AccountNumber: "FR-3307", Industry: "Manufacturing", Phone: "+49 30 555 0199", AnnualRevenueCents: 7_250_000_00, Audit: repository.Audit{OwnerID: rhea, CreatedByID: rhea, LastModifiedByID: rhea}},
	}
	for _, a := range companies {
		if err := accounts.Upsert(ctx, a); err != nil {
			return fmt.Errorf("seed account %s: %w", a.Name, err)
		}
	}

	positions := repository.NewPositionRepo(db)
	roles := []repository.Position{
		{Title: "Staff Backend Engineer", Status: repository.StatusOpenHot, Location: "Remote", MinSalaryCents: 180_000_00, MaxSalaryCents: 230_000_00, AccountID: ref(companies[0].ID)},
		{Title: "Data Platform Lead", Status: repository.StatusOpen, Location: "Boston", MinSalaryCents: 160_000_00, MaxSalaryCents: 200_000_00, AccountID: ref(companies[1].ID)},
		{Title: "Lab Automation Engineer", Status: repository.StatusOpen, Location: "Boston", MinSalaryCents: 120_000_00, MaxSalaryCents: 150_000_00, AccountID: ref(companies[1].ID)},
		{Title: "Controls Engineer", Status: repository.StatusClosed, Location: "Berlin", MinSalaryCents: 90_000_00, MaxSalaryCents: 110_000_00, AccountID: ref(companies[2].ID)},
		{Title: "Store Operations Analyst", Status: repository.StatusClosedCancelled, Location: "Seattle", MinSalaryCents: 70_000_00, MaxSalaryCents: 85_000_00, AccountID: ref(companies[0].ID)},
		{Title: "Firmware Engineer", Status: repository.StatusOpenHot, Location: "Berlin", MinSalaryCents: 100_000_00, MaxSalaryCents: 130_000_00, AccountID: ref(companies[2].ID)},
	}
	for i := range roles {
		roles[i].ID = seedID("position", roles[i].Title)
		roles[i].Audit = repository.Audit{OwnerID: rhea, CreatedByID: tomas, LastModifiedByID: rhea}
		if err := positions.Upsert(ctx, roles[i]); err != nil {
			return fmt.Errorf("seed position %s: %w", roles[i].Title, err)
		}
	}

	names := [][2]string{
		{"Ada", "Lovelace"}, {"Grace", "Hopper"}, {"Alan", "Turing"}, {"Katherine", "Johnson"},
		{"Edsger", "Dijkstra"}, {"Barbara", "Liskov"}, {"Donald", "Knuth"}, {"Radia", "Perlman"},
		{"Ken", "Thompson"}, {"Frances", "Allen"}, {"John", "Backus"}, {"Margaret", "Hamilton"},
	}
	stages := []string{"New", "Screening", "Interview", "Offer"}
	candidates := repository.NewCandidateRepo(db)
	apps := repository.NewJobApplicationRepo(db)
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for i, n := range names {
		id := seedID("candidate", n[0]+" "+n[1])
		existing, err := candidates.Get(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		c := repository.Candidate{
			ID:              id,
			FirstName:       n[0],
			LastName:        n[1],
			Email:           fmt.Sprintf("%s.%s@example.com", strings.ToLower(n[0]), strings.ToLower(n[1])),
			Phone:           fmt.Sprintf("+1 555 01%02d", i),
			Education:       []string{"BSc", "MSc", "PhD"}[i%3],
			YearsExperience: float64(3 + i%9),
			Audit:           repository.Audit{OwnerID: rhea, CreatedByID: ines, LastModifiedByID: tomas},
		}
		pos := roles[i%len(roles)]
		first := &repository.JobApplication{
			ID:         seedID("application", id+pos.ID),
			PositionID: pos.ID,
			Status:     "Open",
			Stage:      stages[i%len(stages)],
			AppliedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := candidates.Create(ctx, c, first); err != nil {
			return fmt.Errorf("seed candidate %s: %w", c.FullName(), err)
		}
		if i%4 == 0 {
			next := roles[(i+1)%len(roles)]
			if err := apps.Insert(ctx, repository.JobApplication{
				ID:          seedID("application", id+next.ID),
				CandidateID: id,
				PositionID:  next.ID,
				Status:      "Open",
				Stage:       "Interview",
				Notes:       "referred internally",
				AppliedAt:   base.Add(time.Duration(i+20) * 24 * time.Hour),
			}); err != nil {
				return fmt.Errorf("seed application: %w", err)
			}
		}
	}
	return nil
}

