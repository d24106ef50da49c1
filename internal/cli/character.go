package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Character lookup commands",
	}

	cmd.AddCommand(newCharacterLookupCmd("get <id>", "Show a character by id", characterPath))
	cmd.AddCommand(newCharacterLookupCmd("by-name <full name>", "Show a character in play by full name", func(arg string) (string, error) {
		return "/api/v1/characters/by-name/" + url.PathEscape(arg), nil
	}))
	cmd.AddCommand(newCharacterLookupCmd("by-number <phone number>", "Show a character in play by phone number", func(arg string) (string, error) {
		return "/api/v1/characters/by-number/" + url.PathEscape(arg), nil
	}))

	return cmd
}

func newCharacterLookupCmd(use, short string, path func(arg string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path(args[0])
			if err != nil {
				return err
			}

			var result Character
			if err := client.Get(p, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMoneyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Character money commands",
	}

	cmd.AddCommand(newMoneyChangeCmd("set", "Set a character's balance", http.MethodPut, "money", "/money"))
	cmd.AddCommand(newMoneyChangeCmd("add", "Add to a character's balance (negative to remove)", http.MethodPost, "amount", "/money/add"))

	return cmd
}

func newMoneyChangeCmd(use, short, method, field, suffix string) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := characterPath(args[0])
			if err != nil {
				return err
			}

			req := map[string]int{field: amount}
			var result MoneyResult
			if err := client.Do(method, id+suffix, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Character job commands",
	}

	var job int
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Change a character's job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := characterPath(args[0])
			if err != nil {
				return err
			}

			if err := client.Do(http.MethodPut, id+"/job", map[string]int{"job": job}, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Job of character %s set to %d", args[0], job))
			return nil
		},
	}
	set.Flags().IntVar(&job, "job", 0, "Job id, -1 for none (required)")
	_ = set.MarkFlagRequired("job")

	cmd.AddCommand(set)
	return cmd
}

func newNotifyCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "notify <id>",
		Short: "Send a notification to a character in play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := characterPath(args[0])
			if err != nil {
				return err
			}

			var result NotifyResult
			if err := client.Post(id+"/notify", map[string]string{"message": message}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Notification text (required)")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func characterPath(arg string) (string, error) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return "", fmt.Errorf("invalid character id %q", arg)
	}
	return "/api/v1/characters/" + arg, nil
}
