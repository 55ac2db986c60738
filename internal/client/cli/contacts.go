package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/query"
)

func (a *App) Contacts(ctx context.Context, args []string) error {
	rows, err := a.contactService.Rows(ctx, a.filter, a.now())
	if err != nil {
		return err
	}
	a.rows = rows

	if len(rows) == 0 {
		printlnFn("No contacts.")
		return nil
	}
	for i, r := range rows {
		printlnFn(formatRow(i+1, r))
	}
	return nil
}

func formatRow(pos int, r query.Row) string {
	pin := " "
	if r.Pinned {
		pin = "*"
	}
	summary := "-"
	if r.HasSummary {
		summary = r.Summary
	}
	return fmt.Sprintf("%2d %s %-20s %-14s %-10s %s", pos, pin, r.Contact.Name, r.Contact.Company, r.Label, summary)
}

func (a *App) AddContact(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	var err error
	if name == "" {
		if name, err = GetSimpleText(a.reader, "- Enter name", a.out); err != nil {
			return err
		}
	}
	company, err := GetSimpleText(a.reader, "- Enter company (empty for none)", a.out)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "- Enter phone (empty for none)", a.out)
	if err != nil {
		return err
	}

	c, err := a.contactService.Add(ctx, models.Contact{Name: name, Company: company, Phone: phone})
	if err != nil {
		return err
	}
	a.rows = nil
	printlnFn("Added", c.Name)
	return nil
}

// rowAt resolves a list position, listing contacts first when the list has
// not been shown yet.
func (a *App) rowAt(ctx context.Context, args []string) (models.Contact, error) {
	if len(args) != 1 {
		return models.Contact{}, errors.New("expected a contact number")
	}
	if a.rows == nil {
		rows, err := a.contactService.Rows(ctx, a.filter, a.now())
		if err != nil {
			return models.Contact{}, err
		}
		a.rows = rows
	}
	i, err := parsePosition(args[0], len(a.rows))
	if err != nil {
		return models.Contact{}, err
	}
	return a.rows[i].Contact, nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	c, err := a.rowAt(ctx, args)
	if err != nil {
		return err
	}
	a.current = &c
	return a.Show(ctx, nil)
}

func (a *App) RemoveContact(ctx context.Context, args []string) error {
	c, err := a.rowAt(ctx, args)
	if err != nil {
		return err
	}
	if err := a.contactService.Remove(ctx, c.ID); err != nil {
		return err
	}
	if a.current != nil && a.current.ID == c.ID {
		a.current = nil
	}
	a.rows = nil
	printlnFn("Removed", c.Name)
	return nil
}

func (a *App) Pin(ctx context.Context, args []string) error {
	c, err := a.rowAt(ctx, args)
	if err != nil {
		return err
	}
	if err := a.contactService.Pin(ctx, c.ID); err != nil {
		return err
	}
	a.rows = nil
	printlnFn("Pinned", c.Name)
	return nil
}

func (a *App) Unpin(ctx context.Context, args []string) error {
	c, err := a.rowAt(ctx, args)
	if err != nil {
		return err
	}
	if err := a.contactService.Unpin(ctx, c.ID); err != nil {
		return err
	}
	a.rows = nil
	printlnFn("Unpinned", c.Name)
	return nil
}

// Filter sets the company filter and relists. Without arguments it shows
// the current filter and the known companies.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		companies, err := a.contactService.Companies(ctx)
		if err != nil {
			return err
		}
		printlnFn("Filter:", a.filter.String())
		printlnFn("Companies:", strings.Join(companies, ", "))
		return nil
	}
	a.filter = query.ParseFilter(strings.Join(args, " "))
	a.rows = nil
	return a.Contacts(ctx, nil)
}
