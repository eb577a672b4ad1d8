package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mediqhq/mediq/internal/core/dataset"
	"github.com/mediqhq/mediq/internal/printer"
	"github.com/mediqhq/mediq/internal/store/jsonfile"
)

type DatasetCmd struct {
	flags *Flags

	// build flags
	symptoms    string
	precautions string
	output      string
}

// NewDatasetCmd creates a new dataset command.
func NewDatasetCmd(flags *Flags) *DatasetCmd {
	return &DatasetCmd{flags: flags}
}

// Register adds the dataset command to the application.
func (cmd *DatasetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "dataset",
		Usage: "Manage the disease knowledge base",
		Description: `The triage responder answers from a JSON knowledge base of diseases,
their symptoms, and recommended precautions. These commands build that
file from CSV exports and list what is installed.`,
		Commands: []*cli.Command{
			cmd.buildCmd(),
			cmd.lsCmd(),
		},
	})

	return app
}

func (cmd *DatasetCmd) buildCmd() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Merge symptom and precaution CSV exports into the dataset",
		UsageText: "mediq dataset build --symptoms symptoms.csv --precautions precautions.csv [-o out.json]",
		Description: `Merges two CSV files into the dataset JSON:

  symptoms.csv     Disease column followed by symptom columns
  precautions.csv  Disease column followed by precaution columns

Symptom cells are trimmed, underscores become spaces, and duplicates are
dropped. Without -o the configured dataset path is written.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "symptoms",
				Usage:       "path to the disease/symptoms CSV",
				Required:    true,
				Destination: &cmd.symptoms,
			},
			&cli.StringFlag{
				Name:        "precautions",
				Usage:       "path to the disease/precautions CSV",
				Required:    true,
				Destination: &cmd.precautions,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the dataset to this path instead of the configured one",
				Destination: &cmd.output,
			},
		},
		Action: cmd.runBuild,
	}
}

func (cmd *DatasetCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:        "ls",
		Usage:       "List dataset files in the data directory",
		UsageText:   "mediq dataset ls",
		Description: "Lists JSON files under the data directory and marks the one the triage responder is configured to use.",
		Action:      cmd.runLs,
	}
}

func (cmd *DatasetCmd) runBuild(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	out := cmd.output
	if out == "" {
		out = cmd.flags.Config.DatasetPath()
	}

	var (
		ds  dataset.Dataset
		err error
	)
	if cmd.output != "" {
		ds, err = cmd.flags.Service.BuildDatasetAt(ctx, cmd.symptoms, cmd.precautions, cmd.output)
	} else {
		ds, err = cmd.flags.Service.BuildDataset(ctx, cmd.symptoms, cmd.precautions)
	}
	if err != nil {
		return err
	}

	p.Success(fmt.Sprintf("Built dataset with %d disease(s)", len(ds)), out)
	return nil
}

func (cmd *DatasetCmd) runLs(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	files, err := jsonfile.Discover(cmd.flags.Config.DataDir)
	if err != nil {
		return fmt.Errorf("scan data directory: %w", err)
	}

	if len(files) == 0 {
		p.Infof("No dataset files in %s", cmd.flags.Config.DataDir)
		p.Infof("Run 'mediq dataset build' to create one")
		return nil
	}

	active := cmd.flags.Config.Responder.Triage.Dataset

	p.Section("Datasets")
	for _, file := range files {
		if file == active {
			p.CheckItem(file, "configured dataset")
			continue
		}
		p.Printf("  %s", file)
	}

	return nil
}
