package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVideoCommand(cliCtx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Register and process videos",
	}
	videoCmd.AddCommand(newVideoRegisterCommand(cliCtx))
	videoCmd.AddCommand(newVideoUploadURLCommand(cliCtx))
	videoCmd.AddCommand(newVideoDownloadURLCommand(cliCtx))
	videoCmd.AddCommand(newVideoShowCommand(cliCtx))
	videoCmd.AddCommand(newVideoProcessCommand(cliCtx))
	return videoCmd
}

func newVideoRegisterCommand(cliCtx *commandContext) *cobra.Command {
	var projectID, title, storagePath string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a video already present in object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" || title == "" || storagePath == "" {
				return fmt.Errorf("--project, --title, and --path are required")
			}
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.registerVideo(cmd.Context(), projectID, title, storagePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered video %s (%s)\n", doc.ID, doc.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&title, "title", "", "Video title")
	cmd.Flags().StringVar(&storagePath, "path", "", "Object storage path of the uploaded file")
	return cmd
}

func newVideoUploadURLCommand(cliCtx *commandContext) *cobra.Command {
	var projectID, title string

	cmd := &cobra.Command{
		Use:   "upload-url",
		Short: "Register a video and issue a signed upload URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" || title == "" {
				return fmt.Errorf("--project and --title are required")
			}
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.uploadURL(cmd.Context(), projectID, title)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video:        %s\n", doc.VideoID)
			fmt.Fprintf(out, "Storage path: %s\n", doc.StoragePath)
			fmt.Fprintf(out, "Upload URL:   %s\n", doc.UploadURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&title, "title", "", "Video title")
	return cmd
}

func newVideoDownloadURLCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download-url <video-id>",
		Short: "Issue a signed download URL for the stored source video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			url, err := client.downloadURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newVideoShowCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.video(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video:    %s\n", doc.ID)
			fmt.Fprintf(out, "Project:  %s\n", doc.ProjectID)
			fmt.Fprintf(out, "Title:    %s\n", doc.Title)
			fmt.Fprintf(out, "Status:   %s\n", doc.Status)
			fmt.Fprintf(out, "Storage:  %s\n", doc.StoragePath)
			if len(doc.Languages) > 0 {
				fmt.Fprintf(out, "Captions: %s\n", strings.Join(doc.Languages, ", "))
			}
			return nil
		},
	}
}

func newVideoProcessCommand(cliCtx *commandContext) *cobra.Command {
	var languages []string

	cmd := &cobra.Command{
		Use:   "process <video-id>",
		Short: "Queue documentation generation for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			jobID, err := client.processVideo(cmd.Context(), args[0], languages)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s\n", jobID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "languages", []string{"en"},
		"Documentation languages, primary first")
	return cmd
}
