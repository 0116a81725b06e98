package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/state"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type credentials struct {
	username string
	password string
}

// promptCredentials reads the username from in and the password without echo
// when stdin is a terminal.
func promptCredentials(in io.Reader, out io.Writer) (credentials, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Username: ")
	username, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return credentials{}, err
	}

	fmt.Fprint(out, "Password: ")
	var password string
	fd := int(os.Stdin.Fd())
	if in == os.Stdin && term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return credentials{}, err
		}
		password = string(raw)
	} else {
		password, err = reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return credentials{}, err
		}
	}

	creds := credentials{
		username: strings.TrimSpace(username),
		password: strings.TrimRight(password, "\r\n"),
	}
	if creds.username == "" || creds.password == "" {
		return credentials{}, errors.New("username and password are required")
	}
	return creds, nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "login",
		Aliases: []string{"l"},
		Short:   "Sign in to hacker news.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			ctx := cmd.Context()

			current, err := e.state.Session(ctx)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s.\n", current.Username)
				return nil
			}
			if !errors.Is(err, state.ErrNoSession) {
				return err
			}

			creds, err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			session, err := e.client.Login(ctx, creds.username, creds.password)
			if errors.Is(err, hackernews.ErrInvalidCredentials) {
				return errors.New("invalid username or password")
			}
			if err != nil {
				return err
			}

			secrets, err := e.openSecrets()
			if err != nil {
				return err
			}
			err = secrets.SetToken(session.Username(), session.Token)
			if err != nil {
				return err
			}
			err = e.state.SaveSession(ctx, session.Username(), session.ExpiresAt)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", session.Username())
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of hacker news.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			ctx := cmd.Context()

			current, err := e.state.Session(ctx)
			if errors.Is(err, state.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			if err != nil {
				return err
			}

			secrets, err := e.openSecrets()
			if err != nil {
				return err
			}
			err = secrets.DeleteToken(current.Username)
			if err != nil {
				return err
			}
			err = e.state.ClearSession(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s.\n", current.Username)
			return nil
		},
	}
}

func newUpvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote INDEX",
		Short: "Upvote a story.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			ctx := cmd.Context()

			listed, err := storyAtArg(cmd, args[0])
			if err != nil {
				return err
			}

			current, err := e.state.Session(ctx)
			if err != nil {
				return err
			}
			secrets, err := e.openSecrets()
			if err != nil {
				return err
			}
			token, err := secrets.Token(current.Username)
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			e.client.SetToken(token)

			details, err := e.client.StoryDetails(ctx, listed.StoryID)
			if err != nil {
				return err
			}
			if details == nil || details.Story.UpvoteAuth == "" {
				return fmt.Errorf("story %d cannot be upvoted", listed.StoryID)
			}

			ok, err := e.client.Upvote(ctx, listed.StoryID, details.Story.UpvoteAuth)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("upvote was refused, try signing in again")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Upvoted %q.\n", listed.Title)
			return nil
		},
	}
}
