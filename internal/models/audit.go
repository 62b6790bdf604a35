package models

import "time"

type ActionType string

const (
	ActionCreateTask   ActionType = "CREATE_TASK"
	ActionUpdateTask   ActionType = "UPDATE_TASK"
	ActionDeleteTask   ActionType = "DELETE_TASK"
	ActionEditTestCase ActionType = "EDIT_TEST_CASE"

	ActionCreateHackathon   ActionType = "CREATE_HACKATHON"
	ActionUpdateHackathon   ActionType = "UPDATE_HACKATHON"
	ActionDeleteHackathon   ActionType = "DELETE_HACKATHON"
	ActionReorderTasks      ActionType = "REORDER_TASKS"
	ActionCompleteHackathon ActionType = "COMPLETE_HACKATHON"
	ActionApproveRequest    ActionType = "APPROVE_REQUEST"
	ActionRejectRequest     ActionType = "REJECT_REQUEST"

	ActionUpdateUser   ActionType = "UPDATE_USER"
	ActionBlockUser    ActionType = "BLOCK_USER"
	ActionUnblockUser  ActionType = "UNBLOCK_USER"
	ActionDeleteUser   ActionType = "DELETE_USER"
	ActionManageSystem ActionType = "MANAGE_SYSTEM"
	ActionExportReport ActionType = "EXPORT_REPORT"
)

type AdminAction struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	AdminID    string     `gorm:"index" json:"adminId"`
	Action     ActionType `gorm:"type:text" json:"action"`
	TargetID   string     `json:"targetId"`
	TargetType string     `json:"targetType"` // "task", "hackathon", "user", "system"
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`

	Admin User `gorm:"foreignKey:AdminID" json:"admin"`
}
