package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
)

// commentWrapWidth is the wrap width for comment bodies.
const commentWrapWidth = 72

// newCommentCommand creates the comment command for adding a comment to a task.
func newCommentCommand(c *app.Container) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to a task",
		Long: `Add a comment to a task.

The author is the signed-in user, or "Team Member" when signed out.

Examples:
  taskboard comment 7 --text "Reproduced on staging"
  taskboard comment 7 "Reproduced on staging"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}
			if len(args) == 2 {
				if text != "" {
					return fmt.Errorf("give the text either as an argument or with --text")
				}
				text = args[1]
			}

			out, err := c.AddCommentUseCase().Execute(cmd.Context(), usecase.AddCommentInput{
				TaskID: taskID,
				Text:   text,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added comment to task #%d as %s (%d comments)\n",
				taskID, out.Comment.Author, len(out.Comments))
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "m", "", "Comment text")

	return cmd
}

// newCommentsCommand creates the comments command for listing task comments.
func newCommentsCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "comments <id>",
		Short: "List comments of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.ListCommentsUseCase().Execute(cmd.Context(), usecase.ListCommentsInput{TaskID: taskID})
			if err != nil {
				return err
			}

			return writeFormatted(cmd.OutOrStdout(), format, out.Comments, func(w io.Writer) {
				if len(out.Comments) == 0 {
					_, _ = fmt.Fprintln(w, "No comments")
					return
				}
				printComments(w, out.Comments)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table, json, yaml)")

	return cmd
}

// printComments prints comments with author initials and wrapped, indented bodies.
func printComments(w io.Writer, comments []domain.Comment) {
	separator := "  ─────────────────"
	for _, comment := range comments {
		_, _ = fmt.Fprintln(w, separator)
		when := ""
		if comment.CreatedAt != nil {
			when = "  " + comment.CreatedAt.Format(timeLayout)
		}
		_, _ = fmt.Fprintf(w, "  (%s) %s%s\n", comment.Initials(), comment.Author, when)
		body := wordwrap.String(strings.TrimSpace(comment.Text), commentWrapWidth)
		_, _ = fmt.Fprintln(w, indent.String(body, 2))
	}
}

// newAttachCommand creates the attach command for uploading a file.
func newAttachCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id> <file>",
		Short: "Attach a file to a task",
		Long: `Upload a local file as an attachment of a task.

Examples:
  taskboard attach 7 ./screenshot.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.UploadAttachmentUseCase().Execute(cmd.Context(), usecase.UploadAttachmentInput{
				TaskID: taskID,
				Path:   args[1],
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as attachment %d (%d attachments)\n",
				out.Attachment.Filename, out.Attachment.ID, len(out.Attachments))
			return nil
		},
	}
}

// newAttachmentsCommand creates the attachments command for listing files.
func newAttachmentsCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "attachments <id>",
		Short: "List attachments of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.ListAttachmentsUseCase().Execute(cmd.Context(), usecase.ListAttachmentsInput{TaskID: taskID})
			if err != nil {
				return err
			}

			return writeFormatted(cmd.OutOrStdout(), format, out.Attachments, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
				defer func() { _ = tw.Flush() }()
				_, _ = fmt.Fprintln(tw, "ID\tFILENAME\tUPLOADED")
				for _, a := range out.Attachments {
					uploaded := "-"
					if a.UploadedAt != nil {
						uploaded = a.UploadedAt.Format(timeLayout)
					}
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Filename, uploaded)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table, json, yaml)")

	return cmd
}

// newDownloadCommand creates the download command.
func newDownloadCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <attachment-id>",
		Short: "Download an attachment",
		Long: `Download an attachment by its id.

The file is saved under the server's filename in the current directory
unless --output is given. Use --output - to write to stdout.

Examples:
  taskboard download 12
  taskboard download 12 --output /tmp/report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid attachment ID: %w", err)
			}

			in := usecase.DownloadAttachmentInput{AttachmentID: id, Output: output, Dir: c.Config.WorkDir}
			if output == "-" {
				in.Output = ""
				in.Writer = cmd.OutOrStdout()
			}

			out, err := c.DownloadAttachmentUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if in.Writer == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out.Path, out.Bytes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "O", "", "Destination path (- for stdout)")

	return cmd
}
