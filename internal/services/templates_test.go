package services

import (
	"errors"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoSumParams = []models.TaskParam{
	{Name: "nums", Type: "int[]"},
	{Name: "target", Type: "int"},
}

func TestValidateSignature(t *testing.T) {
	assert.NoError(t, ValidateSignature("twoSum", twoSumParams, "int[]"))

	cases := map[string]struct {
		fn     string
		params []models.TaskParam
		out    string
	}{
		"bad function name":  {"2sum", twoSumParams, "int"},
		"bad param name":     {"f", []models.TaskParam{{Name: "a-b", Type: "int"}}, "int"},
		"duplicate param":    {"f", []models.TaskParam{{Name: "a", Type: "int"}, {Name: "a", Type: "int"}}, "int"},
		"unknown param type": {"f", []models.TaskParam{{Name: "a", Type: "map"}}, "int"},
		"unknown output":     {"f", nil, "int[][]"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateSignature(tc.fn, tc.params, tc.out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSignature))
		})
	}
}

func TestGenerateTemplates(t *testing.T) {
	templates, err := GenerateTemplates("twoSum", twoSumParams, "int[]")
	require.NoError(t, err)
	assert.Len(t, templates, len(TemplateLanguages))
	for _, lang := range TemplateLanguages {
		assert.NotEmpty(t, templates[lang], lang)
		assert.Contains(t, templates[lang], "twoSum", lang)
	}

	assert.Contains(t, templates["python"], "def twoSum(nums: List[int], target: int) -> List[int]:")
	assert.Contains(t, templates["python"], "nums = list(map(int, lines[0].split()))")
	assert.Contains(t, templates["python"], "target = int(lines[1].strip())")
	assert.Contains(t, templates["javascript"], "function twoSum(nums, target)")
	assert.Contains(t, templates["java"], "public static int[] twoSum(int[] nums, int target)")
	assert.Contains(t, templates["cpp"], "vector<int> twoSum(vector<int> nums, int target)")
	assert.Contains(t, templates["go"], "func twoSum(nums []int, target int) []int")
	assert.Contains(t, templates["go"], "package main")
}

func TestGenerateTemplates_BoolOutput(t *testing.T) {
	templates, err := GenerateTemplates("isPalindrome", []models.TaskParam{{Name: "s", Type: "string"}}, "bool")
	require.NoError(t, err)
	assert.Contains(t, templates["python"], `print("true" if result else "false")`)
	assert.Contains(t, templates["cpp"], `(result ? "true" : "false")`)
	assert.Contains(t, templates["java"], "return false;")
}

func TestGenerateTemplates_InvalidSignature(t *testing.T) {
	_, err := GenerateTemplates("f", []models.TaskParam{{Name: "x", Type: "tuple"}}, "int")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMergeTemplates(t *testing.T) {
	generated := map[string]string{"python": "gen py", "go": "gen go"}
	provided := map[string]string{"python": "custom py", "go": "   ", "rust": "custom rust"}

	merged := MergeTemplates(generated, provided)
	assert.Equal(t, map[string]string{
		"python": "custom py",
		"go":     "gen go",
		"rust":   "custom rust",
	}, merged)
}
