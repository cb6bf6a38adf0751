package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyhub/entities"
	"storyhub/pkg/auth"
	"storyhub/pkg/workflow/service"
)

type workflowStep struct {
	use   string
	short string
	run   func(cmd *cobra.Command, svc service.WorkflowService, id uint, actor auth.Actor) (*entities.Story, error)
}

func newWorkflowCommands(ctx *commandContext) []*cobra.Command {
	steps := []workflowStep{
		{
			use:   "claim",
			short: "Assign a story to the --as translator",
			run: func(cmd *cobra.Command, svc service.WorkflowService, id uint, actor auth.Actor) (*entities.Story, error) {
				res, err := svc.Claim(cmd.Context(), id, actor)
				if err != nil {
					return nil, err
				}
				return res.Story, nil
			},
		},
		{
			use:   "complete",
			short: "Send a fully translated story to review",
			run: func(cmd *cobra.Command, svc service.WorkflowService, id uint, actor auth.Actor) (*entities.Story, error) {
				return svc.Complete(cmd.Context(), id, actor)
			},
		},
		{
			use:   "publish",
			short: "Publish a story that is in review",
			run: func(cmd *cobra.Command, svc service.WorkflowService, id uint, actor auth.Actor) (*entities.Story, error) {
				return svc.Publish(cmd.Context(), id, actor)
			},
		},
	}

	cmds := make([]*cobra.Command, 0, len(steps))
	for _, step := range steps {
		step := step // per-iteration copy; go 1.21 loop variables are shared
		cmds = append(cmds, &cobra.Command{
			Use:   step.use + " <story-id>",
			Short: step.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseStoryID(args[0])
				if err != nil {
					return err
				}
				actor, err := ctx.actor(cmd.Context())
				if err != nil {
					return err
				}
				svc, err := ctx.workflowService()
				if err != nil {
					return err
				}
				story, err := step.run(cmd, svc, id, actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Story %d is %s\n", story.StoryID, story.Status)
				return nil
			},
		})
	}
	return cmds
}
