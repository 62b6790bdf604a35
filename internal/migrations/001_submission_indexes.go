package migrations

import (
	"gorm.io/gorm"
)

var submissionIndexes = []struct{ name, ddl string }{
	// Solve checks and "my submissions": WHERE user_id = ? AND task_id = ? AND status = ?
	{"idx_task_submissions_user_task_status", "task_submissions (user_id, task_id, status)"},
	// Rescoring and hackathon leaderboards: WHERE hackathon_id = ? AND status = 'ACCEPTED'
	{"idx_task_submissions_hackathon_status", "task_submissions (hackathon_id, status)"},
	// Participant listing ordered by score
	{"idx_hackathon_participants_score", "hackathon_participants (hackathon_id, total_score)"},
}

// Migration001SubmissionIndexes adds composite indexes for the scoring and
// leaderboard hot paths. Plain CREATE INDEX since the migrator runs in a transaction.
func Migration001SubmissionIndexes() Migration {
	return Migration{
		ID:   "001_submission_indexes",
		Name: "Add composite indexes for submissions and participants",
		Up: func(db *gorm.DB) error {
			for _, idx := range submissionIndexes {
				if err := db.Exec("CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.ddl).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			for i := len(submissionIndexes) - 1; i >= 0; i-- {
				if err := db.Exec("DROP INDEX IF EXISTS " + submissionIndexes[i].name).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
