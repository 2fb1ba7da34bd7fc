package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/services"
	"github.com/kubev2v/spo-migrator/internal/util"
	"github.com/kubev2v/spo-migrator/pkg/manifest"
)

var (
	titleColor = color.New(color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
)

func stateColor(s models.JobState) *color.Color {
	switch s {
	case models.JobStateEnded:
		return okColor
	case models.JobStateError:
		return errColor
	default:
		return warnColor
	}
}

func printRunReport(w io.Writer, r *services.RunReport, runErr error) {
	titleColor.Fprintln(w, "Migration summary")
	if r != nil {
		fmt.Fprintf(w, "  files:        %d\n", r.Files)
		if r.Blobs > 0 {
			fmt.Fprintf(w, "  package:      %d blobs, %s\n", r.Blobs, util.HumanBytes(r.PackageSize))
		}
		if r.JobID != uuid.Nil {
			fmt.Fprintf(w, "  job:          %s\n", r.JobID)
			fmt.Fprintf(w, "  state:        %s\n", stateColor(r.Status.State).Sprint(r.Status.State))
			fmt.Fprintf(w, "  created:      %d\n", r.Status.FilesCreated)
			fmt.Fprintf(w, "  errors:       %d\n", r.Status.TotalErrors)
			fmt.Fprintf(w, "  warnings:     %d\n", r.Status.Warnings)
		}
		fmt.Fprintf(w, "  duration:     %s\n", r.Duration.Round(time.Second))
	}

	if runErr != nil {
		var stepErr *services.StepError
		if errors.As(runErr, &stepErr) {
			errColor.Fprintf(w, "  failed at step %d (%s)\n", int(stepErr.Step), stepErr.Step)
		} else {
			errColor.Fprintln(w, "  failed")
		}
		return
	}
	okColor.Fprintln(w, "  done")
}

func printPackage(w io.Writer, dir string, pkg *manifest.Package) {
	titleColor.Fprintf(w, "Package written to %s\n", dir)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range pkg.Blobs {
		fmt.Fprintf(tw, "  %s\t%s\n", b.Name, util.HumanBytes(len(b.Contents)))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "  total: %s\n", util.HumanBytes(pkg.TotalSize()))
}

func printJobs(w io.Writer, jobs []models.JobStatus, total int) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "no job recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, titleColor.Sprint("JOB\tSTATE\tCREATED\tERRORS\tWARNINGS\tSTARTED"))
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			j.JobID,
			stateColor(j.State).Sprint(j.State),
			j.FilesCreated,
			j.TotalErrors,
			j.Warnings,
			j.CreatedAt.Local().Format(time.DateTime),
		)
	}
	_ = tw.Flush()

	if total > len(jobs) {
		fmt.Fprintf(w, "%d of %d jobs shown\n", len(jobs), total)
	}
}

func printJob(w io.Writer, j models.JobStatus, events []models.JobEventRecord, logs []models.JobLog) {
	titleColor.Fprintf(w, "Job %s\n", j.JobID)
	fmt.Fprintf(w, "  state:    %s\n", stateColor(j.State).Sprint(j.State))
	fmt.Fprintf(w, "  created:  %d files\n", j.FilesCreated)
	fmt.Fprintf(w, "  errors:   %d\n", j.TotalErrors)
	if j.LastError != "" {
		fmt.Fprintf(w, "  last error: %s\n", errColor.Sprint(j.LastError))
	}

	titleColor.Fprintln(w, "Events")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range events {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\t%d\t%s\n",
			e.Seq, e.ReceivedAt.Local().Format(time.TimeOnly), e.Event, e.FilesCreated, e.TotalErrors, e.Message)
	}
	_ = tw.Flush()

	if len(logs) > 0 {
		titleColor.Fprintln(w, "Logs")
		for _, l := range logs {
			fmt.Fprintf(w, "  %s (%s)\n", l.Path, util.HumanBytes(l.Size))
		}
	}
}
