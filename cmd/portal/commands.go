package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"portal-client/internal/api"
	"portal-client/internal/documents"
	"portal-client/internal/workflow"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("login requires -u and -p")
	}

	resp, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", color.CyanString(resp.User.Username))
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	firstName := fs.String("first", "", "first name")
	lastName := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -u, -e, and -p")
	}

	resp, err := a.auth.Register(ctx, api.RegisterRequest{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		return err
	}
	if resp.Message != "" {
		fmt.Println(resp.Message)
	}
	fmt.Println("Account created. Run 'portal login' to sign in.")
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.auth.Logout(ctx)
	a.dashboard.Invalidate()
	fmt.Println("Logged out.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}
	user, err := a.auth.EnsureFreshUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", color.CyanString(user.Username), user.Email)
	if user.FirstName != "" || user.LastName != "" {
		fmt.Println(strings.TrimSpace(user.FirstName + " " + user.LastName))
	}
	return nil
}

func cmdAnalyze(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "path to the document")
	route := fs.String("route", string(documents.RouteVisualArt), "application route (visual_art, combined_art)")
	evidence := fs.String("type", string(documents.EvidenceCV), "evidence type (cv, media_coverage, evidence_of_appearance, reference_letter, awards_and_recognition)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("analyze requires -file")
	}
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	r := documents.Route(*route)
	if !r.Valid() {
		return fmt.Errorf("unknown route %q", *route)
	}
	e := documents.EvidenceType(*evidence)
	if !e.Valid() {
		return fmt.Errorf("unknown evidence type %q", *evidence)
	}
	if err := documents.ValidateSelection([]string{*file}, documents.DefaultLimits()); err != nil {
		return err
	}

	wf := a.workflow
	wf.OnChange = func(snap workflow.Snapshot) {
		switch snap.Status {
		case workflow.StatusUploading:
			fmt.Println("Uploading...")
		case workflow.StatusAnalysisPending:
			fmt.Println("Analysis queued...")
		case workflow.StatusAnalysisProcessing:
			fmt.Println("Analyzing...")
		}
	}
	wf.Classify(r, e)
	wf.SelectFiles([]string{*file})
	if err := wf.StartAnalysis(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		wf.Teardown()
		return ctx.Err()
	case <-wf.Done():
	}

	snap := wf.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}
	if snap.Result != nil {
		renderAnalysis(*snap.Result)
	}
	a.dashboard.Invalidate()
	return nil
}

func cmdDashboard(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	refresh := fs.Bool("refresh", false, "bypass the cache and refetch everything")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	env, err := a.dashboard.Load(ctx, *refresh)
	if err != nil {
		return err
	}
	renderDashboard(env)
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "document ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("delete requires -id")
	}
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	if err := a.dashboard.DeleteDocument(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted document %s\n", *id)
	return nil
}

func cmdContact(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ExitOnError)
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	subject := fs.String("subject", "", "subject line")
	message := fs.String("message", "", "message body")
	wechat := fs.String("wechat", "", "WeChat ID (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := a.contact.SubmitGeneralInquiry(ctx, api.GeneralInquiry{
		Name:     *name,
		Email:    *email,
		Subject:  *subject,
		Message:  *message,
		WeChatID: *wechat,
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Message sent."
	}
	fmt.Println(color.GreenString(msg))
	return nil
}

func cmdMediaInterest(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("media-interest", flag.ExitOnError)
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	media := fs.String("media", "", "media outlet of interest")
	message := fs.String("message", "", "message body (optional)")
	wechat := fs.String("wechat", "", "WeChat ID (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := a.contact.SubmitMediaInterest(ctx, api.MediaInterest{
		Name:     *name,
		Email:    *email,
		Media:    *media,
		Message:  *message,
		WeChatID: *wechat,
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Message sent."
	}
	fmt.Println(color.GreenString(msg))
	return nil
}
