package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/perspectshift/internal/images"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
)

func newViewCmd(opts *rootOptions) *cobra.Command {
	var (
		perspective string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Upload an image and show one perspective",
		Long: `Uploads the image, loads the requested perspective, and prints the image's
comments. With --output the decoded perspective image is written to a file.`,
		Example: `  perspectshift view tower.jpg
  perspectshift view tower.jpg --perspective worms_eye --output tower-up.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePerspective(perspective)
			if err != nil {
				return err
			}
			file, err := images.ReadFile(args[0])
			if err != nil {
				return err
			}

			controller := session.NewController(opts.client())
			ctx := cmd.Context()
			if err := controller.Upload(ctx, []images.File{file}); err != nil {
				return err
			}
			if p != models.DefaultPerspective {
				if err := controller.LoadPerspective(ctx, p); err != nil {
					return err
				}
			}

			s := controller.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Image ID: %s\n", s.ImageID)
			fmt.Fprintf(out, "%s: %dx%d %s\n", s.Perspective.Label(), s.Current.Width, s.Current.Height, s.Current.MIMEType)
			printComments(out, s.Comments)

			if output != "" {
				if err := os.WriteFile(output, s.Current.Data, 0644); err != nil {
					return fmt.Errorf("failed to write image: %w", err)
				}
				fmt.Fprintf(out, "Saved %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&perspective, "perspective", string(models.DefaultPerspective), "Perspective to load (original, birds_eye, worms_eye)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the decoded perspective image to this file")

	return cmd
}

func printComments(w io.Writer, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet")
		return
	}
	fmt.Fprintf(w, "Comments (%d):\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(w, "  From %s: %s\n", c.PerspectiveLabel(), c.Text)
	}
}
