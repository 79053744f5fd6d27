package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/categories"
	"github.com/forkthecity/microsite-store/internal/app/entities"
	"github.com/forkthecity/microsite-store/internal/app/members"
	"github.com/forkthecity/microsite-store/internal/app/posts"
	"github.com/forkthecity/microsite-store/internal/app/responses"
	"github.com/forkthecity/microsite-store/internal/app/volunteers"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/imageenc"
)

func subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdExport(ctx context.Context, e *env, args []string) error {
	fs := subFlags("export")
	out := fs.String("o", "", "output file (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	s, err := e.store(ctx)
	if err != nil {
		return err
	}
	data, err := s.Snapshot.Export(ctx)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if *out == "" {
		_, err = e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	e.log.WithField("file", *out).Info("snapshot exported")
	return nil
}

func cmdImport(ctx context.Context, e *env, args []string) error {
	fs := subFlags("import")
	in := fs.String("i", "", "snapshot file (stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	r, err := openInput(*in, e.stdin)
	if err != nil {
		return err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s, err := e.store(ctx)
	if err != nil {
		return err
	}
	return s.Snapshot.Import(ctx, data)
}

func cmdClear(ctx context.Context, e *env, args []string) error {
	fs := subFlags("clear")
	yes := fs.Bool("yes", false, "confirm deleting all data")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if !*yes {
		return errors.New("refusing to clear without -yes")
	}
	s, err := e.store(ctx)
	if err != nil {
		return err
	}
	return s.Snapshot.Clear(ctx)
}

func cmdUsage(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	s, err := e.store(ctx)
	if err != nil {
		return err
	}
	u, err := s.Snapshot.Usage(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "%s of %s used (%.2f%%)\n",
		imageenc.FormatBytes(u.UsedBytes), imageenc.FormatBytes(u.CapacityBytes), u.Percent)
	return err
}

// cmdEncodeImage prints one data URL per accepted file. Rejected files are
// logged and make the command fail after the rest are processed.
func cmdEncodeImage(_ context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	uploads := make([]imageenc.Upload, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		uploads = append(uploads, imageenc.Upload{
			Data:      data,
			MediaType: imageenc.MediaType(path, data),
			Err:       err,
		})
	}
	res := imageenc.ProcessUploads(uploads)
	for _, w := range res.Warnings {
		e.log.Warn(w)
	}
	for _, u := range res.DataURLs {
		if _, err := fmt.Fprintln(e.stdout, u); err != nil {
			return err
		}
	}
	if len(res.Errors) > 0 {
		for _, msg := range res.Errors {
			e.log.Error(msg)
		}
		return fmt.Errorf("%d of %d images rejected", len(res.Errors), len(args))
	}
	return nil
}

const demoEmail = "demo@forkthecity.org"

// cmdSeedDemo fills an empty store with a small, linked data set.
func cmdSeedDemo(ctx context.Context, e *env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	s, err := e.store(ctx)
	if err != nil {
		return err
	}

	jane, err := s.Members.Create(ctx, members.CreateInput{Email: demoEmail, Name: "Jane Doe", Password: "demo"})
	if errors.Is(err, apperr.ErrDuplicateEmail) {
		e.log.WithField("email", demoEmail).Info("demo data already present")
		return nil
	}
	if err != nil {
		return err
	}
	sam, err := s.Members.Create(ctx, members.CreateInput{Email: "sam@forkthecity.org", Name: "Sam Rivera", Password: "demo"})
	if err != nil {
		return err
	}
	// Signup moved the session to Sam; hand it back to Jane.
	if _, _, err := s.Auth.Login(ctx, demoEmail, "demo"); err != nil {
		return err
	}

	bio := "Weekend gardener."
	if _, err := s.Volunteers.Create(ctx, sam.ID, volunteers.CreateInput{
		Skills:        []string{"gardening", "carpentry"},
		Availability:  domain.AvailabilityWeekends,
		PreferredJobs: []string{"park cleanup"},
		Bio:           &bio,
	}); err != nil {
		return err
	}
	org, err := s.Organizations.Create(ctx, jane.ID, entities.OrganizationInput{
		Name:             "Friends of Riverside Park",
		Type:             domain.OrganizationTypeNonprofit,
		MissionStatement: "Keep Riverside Park green and safe.",
		TaxExempt:        true,
		Address:          "1 Riverside Dr",
		ContactEmail:     "hello@riverside.example",
	})
	if err != nil {
		return err
	}
	biz, err := s.Businesses.Create(ctx, sam.ID, entities.BusinessInput{
		Name:         "Corner Cafe",
		BusinessType: "cafe",
		Description:  "Coffee and pastries.",
		Services:     []string{"coffee", "catering"},
		Address:      "12 Main St",
		ContactEmail: "cafe@example.com",
	})
	if err != nil {
		return err
	}

	cat, err := s.Categories.Create(ctx, jane.ID, "Park Cleanup")
	var dup *categories.DuplicateError
	if errors.As(err, &dup) {
		cat = domain.CustomCategory{Name: dup.ExistingName}
	} else if err != nil {
		return err
	}

	cleanup, err := s.Posts.Create(ctx, jane.ID, posts.CreateInput{
		Title:          "Spring cleanup this Saturday",
		Description:    "Gloves and bags provided.",
		Category:       cat.Name,
		Location:       "Riverside Park",
		OrganizationID: &org.ID,
	})
	if err != nil {
		return err
	}
	pothole, err := s.Posts.Create(ctx, sam.ID, posts.CreateInput{
		Title:      "Pothole on Main St",
		Category:   "concern",
		Location:   "Main St & 3rd",
		BusinessID: &biz.ID,
	})
	if err != nil {
		return err
	}
	if _, err := s.Posts.AddSupporter(ctx, pothole.ID); err != nil {
		return err
	}
	if _, err := s.Responses.Create(ctx, cleanup.ID, sam.ID, responses.CreateInput{Content: "Count me in!"}); err != nil {
		return err
	}

	e.log.WithField("member", jane.ID).Info("demo data seeded")
	return nil
}

