package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func parseStoryID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid story id %q", arg)
	}
	return uint(id), nil
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var def fileDefaults
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create stories from a manifest, HTML or text file",
		Long: "Create stories from a YAML/JSON manifest (one story or a \"stories\" list),\n" +
			"or from a single .html/.txt file described by --title, --from and --to.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadManifests(args[0], def)
			if err != nil {
				return err
			}
			actor, err := ctx.actor(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := ctx.storyService()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, m := range items {
				res, err := svc.Import(cmd.Context(), m.CreateInput, m.ContentInput, actor)
				if err != nil {
					return fmt.Errorf("story %d (%q): %w", i+1, m.Title, err)
				}
				fmt.Fprintf(out, "Imported story %d %s: %d paragraphs, %d chapters\n",
					res.Story.StoryID, res.Story.Slug, res.ParagraphCount, res.ChapterCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&def.title, "title", "", "Story title for .html/.txt files")
	cmd.Flags().StringVar(&def.from, "from", "", "Original language code for .html/.txt files")
	cmd.Flags().StringVar(&def.to, "to", "", "Target language code for .html/.txt files")
	cmd.Flags().StringSliceVar(&def.tags, "tag", nil, "Tag for .html/.txt files; repeatable")
	return cmd
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <story-id> <file>",
		Short: "Replace the content of a story",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStoryID(args[0])
			if err != nil {
				return err
			}
			items, err := loadManifests(args[1], fileDefaults{})
			if err != nil {
				return err
			}
			if len(items) != 1 {
				return fmt.Errorf("parse takes exactly one story, file has %d", len(items))
			}
			actor, err := ctx.actor(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := ctx.storyService()
			if err != nil {
				return err
			}
			res, err := svc.Parse(cmd.Context(), id, items[0].ContentInput, actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parsed story %d: %d paragraphs, %d chapters\n",
				res.Story.StoryID, res.ParagraphCount, res.ChapterCount)
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <story-id>",
		Short: "Write a story's paragraphs and translations to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseStoryID(args[0])
			if err != nil {
				return err
			}
			actor, err := ctx.actor(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := ctx.storyService()
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("story-%d.xlsx", id)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, f.Close())
				if err != nil {
					_ = os.Remove(output)
				}
			}()
			if err := svc.Export(cmd.Context(), id, f, actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported story %d to %s\n", id, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default story-<id>.xlsx)")
	return cmd
}
