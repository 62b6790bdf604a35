package seeds

import (
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedCase struct {
	in, out string
	hidden  bool
}

type seedTask struct {
	title, description string
	difficulty         models.Difficulty
	fn                 string
	params             []models.TaskParam
	out                string
	tags               []string
	cases              []seedCase
}

var sampleTasks = []seedTask{
	{
		title:       "Sum of Two Numbers",
		description: "Given two integers `a` and `b`, return their sum.\n\n**Example**\n\n```\n5\n3\n```\n\nOutput: `8`",
		difficulty:  models.DifficultyEasy,
		fn:          "sum",
		params:      []models.TaskParam{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
		out:         "int",
		tags:        []string{"math"},
		cases: []seedCase{
			{"5\n3", "8", false},
			{"0\n0", "0", false},
			{"-7\n10", "3", true},
			{"1000000\n2000000", "3000000", true},
		},
	},
	{
		title:       "Reverse a String",
		description: "Return the characters of `s` in reverse order.",
		difficulty:  models.DifficultyEasy,
		fn:          "reverse",
		params:      []models.TaskParam{{Name: "s", Type: "string"}},
		out:         "string",
		tags:        []string{"strings"},
		cases: []seedCase{
			{"hello", "olleh", false},
			{"racecar", "racecar", true},
		},
	},
	{
		title:       "Maximum Subarray",
		description: "Return the largest sum of a contiguous, non-empty subarray of `nums`.",
		difficulty:  models.DifficultyMedium,
		fn:          "maxSubarray",
		params:      []models.TaskParam{{Name: "nums", Type: "int[]"}},
		out:         "int",
		tags:        []string{"arrays", "dynamic-programming"},
		cases: []seedCase{
			{"-2 1 -3 4 -1 2 1 -5 4", "6", false},
			{"1", "1", false},
			{"-3 -1 -2", "-1", true},
		},
	},
	{
		title:       "Sort Colors",
		description: "Sort `nums`, which contains only 0, 1 and 2, in one pass and return it.",
		difficulty:  models.DifficultyMedium,
		fn:          "sortColors",
		params:      []models.TaskParam{{Name: "nums", Type: "int[]"}},
		out:         "int[]",
		tags:        []string{"arrays", "sorting"},
		cases: []seedCase{
			{"2 0 2 1 1 0", "0 0 1 1 2 2", false},
			{"2 0 1", "0 1 2", true},
		},
	},
	{
		title:       "Longest Valid Parentheses",
		description: "Given a string of `(` and `)`, return the length of the longest well-formed substring.",
		difficulty:  models.DifficultyHard,
		fn:          "longestValid",
		params:      []models.TaskParam{{Name: "s", Type: "string"}},
		out:         "int",
		tags:        []string{"strings", "stack", "dynamic-programming"},
		cases: []seedCase{
			{"(()", "2", false},
			{")()())", "4", false},
			{"", "0", true},
		},
	},
}

// SeedTasks creates the sample task set, skipping titles that already exist.
// Returns every sample task found or created.
func SeedTasks(creator models.User) []models.Task {
	var out []models.Task
	for _, st := range sampleTasks {
		slug := utils.GenerateSlug(st.title)

		var existing models.Task
		if err := database.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
			out = append(out, existing)
			continue
		}

		templates, err := services.GenerateTemplates(st.fn, st.params, st.out)
		if err != nil {
			logger.Error().Err(err).Str("task", st.title).Msg("Invalid sample task signature")
			continue
		}

		task := models.Task{
			ID:            utils.GenerateID(),
			Title:         st.title,
			Slug:          slug,
			Description:   st.description,
			Difficulty:    st.difficulty,
			FunctionName:  st.fn,
			InputParams:   datatypes.NewJSONType(st.params),
			OutputType:    st.out,
			CodeTemplates: datatypes.NewJSONType(templates),
			Tags:          pq.StringArray(st.tags),
			TimeLimit:     2,
			MemoryLimit:   128000,
			IsPublished:   true,
			CreatedBy:     creator.ID,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
			for i, c := range st.cases {
				tc := models.TestCase{
					ID:             utils.GenerateID(),
					TaskID:         task.ID,
					Input:          c.in,
					ExpectedOutput: c.out,
					IsHidden:       c.hidden,
					Position:       i,
				}
				if err := tx.Create(&tc).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Str("task", st.title).Msg("Failed to seed task")
			continue
		}
		logger.Info().Str("task", task.Title).Str("difficulty", string(task.Difficulty)).Msg("Task added")
		out = append(out, task)
	}
	return out
}
