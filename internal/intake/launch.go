package intake

import (
	"fmt"
	"net/url"
)

// LaunchParams are the optional identifiers passed when the form is opened.
type LaunchParams struct {
	ComputerName string
	UserName     string
}

// ParseLaunchURL reads the computer and user query parameters. An empty
// string yields empty params.
func ParseLaunchURL(raw string) (LaunchParams, error) {
	if raw == "" {
		return LaunchParams{}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return LaunchParams{}, fmt.Errorf("parse launch url: %w", err)
	}
	q := u.Query()
	return LaunchParams{ComputerName: q.Get("computer"), UserName: q.Get("user")}, nil
}
