package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/drive"
	"github.com/gbnam453/nalbom-admin/internal/model"
	"github.com/gbnam453/nalbom-admin/internal/utils"
)

const defaultAPIURL = "http://localhost:2401/"

var (
	apiURL string
	client *api.Client
)

// requestTimeout bounds every command except image upload
const requestTimeout = 30 * time.Second

func configFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nalbom", "config.yaml"), nil
}

// resources lists the record types the CLI can list and delete
var resources = []string{"notices", "uploads", "downloads"}

func checkResource(name string) error {
	for _, r := range resources {
		if r == name {
			return nil
		}
	}
	return fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(resources, ", "))
}

func printProgress(w io.Writer, sent, total int64) {
	if total <= 0 {
		return
	}

	percent := float64(sent) / float64(total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(w, "\r%s %.1f%% (%s/%s)", bar, percent, utils.FormatFileSize(sent), utils.FormatFileSize(total))

	if sent == total {
		fmt.Fprintln(w)
	}
}

func printNotices(w io.Writer, notices []model.Notice) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREGION\tTITLE")
	for _, n := range notices {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, n.Region, n.Title)
	}
	tw.Flush()
}

func printUploads(w io.Writer, uploads []model.Upload) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tLINK")
	for _, u := range uploads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Type.Label(), u.Title, u.Link)
	}
	tw.Flush()
}

func printDownloads(w io.Writer, downloads []model.Download) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREGION\tCATEGORY\tTYPE\tTITLE")
	for _, d := range downloads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Region, d.Category, d.Type, d.Title)
	}
	tw.Flush()
}

var rootCmd = &cobra.Command{
	Use:   "nalbomctl",
	Short: "호서늘봄 operator CLI",
	Long: `nalbomctl talks to the 호서늘봄 REST API from the command line.

Features:
  • Convert Google Drive share links to direct-download links
  • List and delete notices, uploads and downloads
  • Attach images to notices
  • Configuration management

Quick start:
  nalbomctl convert https://drive.google.com/file/d/ID/view
  nalbomctl list notices
  nalbomctl image upload 12 poster.png
  nalbomctl config set api https://api.example.com/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		apiURL = viper.GetString("api")
		if apiURL == "" {
			apiURL = defaultAPIURL
		}
		var err error
		client, err = api.NewClient(api.ClientOptions{BaseURL: apiURL})
		return err
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <share-link>",
	Short: "Convert a Google Drive share link",
	Long: `Convert a Google Drive share link into a direct-download link.

Templates:
  • uc (default): https://drive.google.com/uc?export=download&id=ID
  • usercontent:  https://drive.usercontent.google.com/download?id=ID&export=download`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("template")
		if name == "" {
			name = viper.GetString("template")
		}
		tmpl, err := drive.ParseTemplate(name)
		if err != nil {
			return err
		}

		converted, err := drive.NewConverter(tmpl).ConvertStrict(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), converted)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list <notices|uploads|downloads>",
	Aliases: []string{"ls"},
	Short:   "List records, newest first",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkResource(args[0]); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		switch args[0] {
		case "notices":
			notices, err := client.Notices().List(ctx)
			if err != nil {
				return fmt.Errorf("error listing notices: %w", err)
			}
			printNotices(out, notices)
		case "uploads":
			uploads, err := client.Uploads().List(ctx)
			if err != nil {
				return fmt.Errorf("error listing uploads: %w", err)
			}
			printUploads(out, uploads)
		case "downloads":
			downloads, err := client.Downloads().List(ctx)
			if err != nil {
				return fmt.Errorf("error listing downloads: %w", err)
			}
			printDownloads(out, downloads)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <notices|uploads|downloads> <id>",
	Aliases: []string{"d", "del"},
	Short:   "Delete a record",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkResource(args[0]); err != nil {
			return err
		}
		id, err := model.ParseID(args[1])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		switch args[0] {
		case "notices":
			err = client.Notices().Delete(ctx, id)
		case "uploads":
			err = client.Uploads().Delete(ctx, id)
		case "downloads":
			err = client.Downloads().Delete(ctx, id)
		}
		if err != nil {
			return fmt.Errorf("error deleting %s %d: %w", args[0], id, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", strings.TrimSuffix(args[0], "s"), id)
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage notice images",
}

var imageUploadCmd = &cobra.Command{
	Use:   "upload <notice-id> <file>",
	Short: "Attach an image to a notice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		noticeID, err := model.ParseID(args[0])
		if err != nil {
			return err
		}

		file, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		mtype, err := mimetype.DetectReader(file)
		if err != nil {
			return fmt.Errorf("failed to detect file type: %w", err)
		}
		if !strings.HasPrefix(mtype.String(), "image/") {
			return fmt.Errorf("%s is %s, not an image", args[1], mtype.String())
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return err
		}

		noProgress, _ := cmd.Root().PersistentFlags().GetBool("no-progress")
		out := cmd.OutOrStdout()
		var progress api.ProgressFunc
		if !noProgress {
			progress = func(sent, total int64) { printProgress(out, sent, total) }
		}

		img, err := client.UploadImage(cmd.Context(), noticeID, api.ImageUpload{
			Filename:    filepath.Base(args[1]),
			ContentType: mtype.String(),
			Body:        file,
			Progress:    progress,
		})
		if err != nil {
			return fmt.Errorf("error uploading image: %w", err)
		}

		fmt.Fprintf(out, "Upload successful!\n")
		fmt.Fprintf(out, "Image: %d\n", img.ID)
		fmt.Fprintf(out, "URL: %s\n", img.URL)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c", "cfg"},
	Short:   "Manage client configuration",
	Long: `Manage client configuration settings.

Configuration is stored in ~/.nalbom/config.yaml`,
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Aliases: []string{"s"},
	Short:   "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  • api: REST API root (e.g., https://api.example.com/)
  • template: default drive template (uc or usercontent)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		path, err := configFile()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		viper.Set(key, value)
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("error saving configuration: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Aliases: []string{"g"},
	Short:   "Get a configuration value",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := viper.GetString(key)

		if value == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not set\n", key)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		}
		return nil
	},
}

func init() {
	if path, err := configFile(); err == nil {
		viper.SetConfigFile(path)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring %s: %v\n", path, err)
		}
	}
	viper.SetEnvPrefix("NALBOM")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringP("api", "a", "", "REST API root (default: "+defaultAPIURL+")")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Disable the progress bar for image uploads")
	viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))

	convertCmd.Flags().StringP("template", "t", "", "Download template: uc or usercontent")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(configCmd)

	imageCmd.AddCommand(imageUploadCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
