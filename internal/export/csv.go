package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/studytracker/internal/store"
)

// TasksToCSV writes the task list as CSV, one row per task.
func TasksToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Subject", "Priority", "Status", "Due", "Estimated (h)"}); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Title,
			t.Subject,
			t.Priority,
			t.Status,
			t.DueDate,
			fmt.Sprintf("%.1f", t.EstimatedHours),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
