package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	objectListLimit       int
	objectListCursor      string
	objectListName        string
	objectListContentType string
	objectListState       string
	objectListSearch      string
	objectListPublic      bool

	objectDownloadDuration int
)

// objectCmd represents the object command
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Manage storage objects",
	Long: `Manage storage objects: blobs stored on the platform and
addressable from devboxes.`,
}

var objectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List storage objects",
	Long: `List storage objects as JSON.

--public switches to the shared public object listing.`,
	Args: cobra.NoArgs,
	RunE: runObjectList,
}

var objectGetCmd = &cobra.Command{
	Use:   "get <object-id>",
	Short: "Get a storage object",
	Args:  cobra.ExactArgs(1),
	RunE:  runObjectGet,
}

var objectDownloadCmd = &cobra.Command{
	Use:   "download <object-id> [local-path]",
	Short: "Download an object's contents",
	Long: `Download an object by resolving a presigned URL and streaming the
contents to disk. The local path defaults to the object's name.
Progress is reported when the size is known.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runObjectDownload,
}

var objectDeleteCmd = &cobra.Command{
	Use:   "delete <object-id>",
	Short: "Delete a storage object",
	Args:  cobra.ExactArgs(1),
	RunE:  runObjectDelete,
}

func init() {
	rootCmd.AddCommand(objectCmd)

	objectCmd.AddCommand(objectListCmd)
	objectCmd.AddCommand(objectGetCmd)
	objectCmd.AddCommand(objectDownloadCmd)
	objectCmd.AddCommand(objectDeleteCmd)

	objectListCmd.Flags().IntVar(&objectListLimit, "limit", 0, "Page size (server default when 0)")
	objectListCmd.Flags().StringVar(&objectListCursor, "starting-after", "", "Cursor: id of the last object on the previous page")
	objectListCmd.Flags().StringVar(&objectListName, "name", "", "Filter by exact name")
	objectListCmd.Flags().StringVar(&objectListContentType, "content-type", "", "Filter by content type")
	objectListCmd.Flags().StringVar(&objectListState, "state", "", "Filter by state (uploading, read_only, deleted)")
	objectListCmd.Flags().StringVar(&objectListSearch, "search", "", "Substring search on names")
	objectListCmd.Flags().BoolVar(&objectListPublic, "public", false, "List public objects instead of the account's")

	objectDownloadCmd.Flags().IntVar(&objectDownloadDuration, "duration-seconds", 3600, "Presigned URL validity in seconds")
}

func runObjectList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Objects.List(cmd.Context(), api.ObjectListOptions{
		ListOptions: api.ListOptions{Limit: objectListLimit, StartingAfter: objectListCursor},
		Name:        objectListName,
		ContentType: objectListContentType,
		State:       objectListState,
		Search:      objectListSearch,
		Public:      objectListPublic,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runObjectGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	object, err := client.Objects.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, object)
}

func runObjectDownload(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}

	object, err := client.Objects.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	localPath := object.Name
	if len(args) == 2 {
		localPath = args[1]
	}
	if localPath == "" {
		localPath = object.ID
	}

	presigned, err := client.Objects.GenerateDownloadURL(cmd.Context(), args[0], objectDownloadDuration)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, presigned.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading object: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading object: unexpected status %s", resp.Status)
	}

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}
	defer out.Close() //nolint:errcheck

	written, err := copyWithProgress(cmd.ErrOrStderr(), out, resp.Body, resp.ContentLength)
	if err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s (%d bytes)\n", localPath, written)
	return nil
}

// copyWithProgress copies src to dst, printing percentage progress to
// report when the total size is known.
func copyWithProgress(report io.Writer, dst io.Writer, src io.Reader, total int64) (int64, error) {
	if total <= 0 {
		return io.Copy(dst, src)
	}

	var written int64
	lastPct := -1
	buf := make([]byte, 256*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if pct := int(written * 100 / total); pct != lastPct {
				fmt.Fprintf(report, "\r%d%%", pct)
				lastPct = pct
			}
		}
		if err == io.EOF {
			fmt.Fprintln(report)
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

func runObjectDelete(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.Objects.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted object %s\n", args[0])
	return nil
}
