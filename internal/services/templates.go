package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Ariet2003/codigma-sub000/internal/models"
)

// Languages that get generated starter code.
var TemplateLanguages = []string{"python", "javascript", "java", "cpp", "go"}

var ErrInvalidSignature = errors.New("invalid function signature")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validParamTypes = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true,
	"int[]": true, "float[]": true, "string[]": true,
}

func isArrayType(t string) bool {
	return strings.HasSuffix(t, "[]")
}

// ValidateSignature checks a function signature before templates are built.
func ValidateSignature(functionName string, params []models.TaskParam, outputType string) error {
	if !identPattern.MatchString(functionName) {
		return fmt.Errorf("%w: invalid function name %q", ErrInvalidSignature, functionName)
	}
	seen := make(map[string]bool)
	for _, p := range params {
		if !identPattern.MatchString(p.Name) {
			return fmt.Errorf("%w: invalid parameter name %q", ErrInvalidSignature, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, p.Name)
		}
		seen[p.Name] = true
		if !validParamTypes[p.Type] {
			return fmt.Errorf("%w: unsupported parameter type %q", ErrInvalidSignature, p.Type)
		}
	}
	if !validParamTypes[outputType] {
		return fmt.Errorf("%w: unsupported output type %q", ErrInvalidSignature, outputType)
	}
	return nil
}

// GenerateTemplates builds a starter program per language: a function stub
// plus a driver that reads one parameter per stdin line (arrays space
// separated) and prints the result in the same format.
func GenerateTemplates(functionName string, params []models.TaskParam, outputType string) (map[string]string, error) {
	if err := ValidateSignature(functionName, params, outputType); err != nil {
		return nil, err
	}
	return map[string]string{
		"python":     pythonTemplate(functionName, params, outputType),
		"javascript": javascriptTemplate(functionName, params, outputType),
		"java":       javaTemplate(functionName, params, outputType),
		"cpp":        cppTemplate(functionName, params, outputType),
		"go":         goTemplate(functionName, params, outputType),
	}, nil
}

// MergeTemplates keeps every non-empty template the admin wrote and fills
// the remaining languages from generated.
func MergeTemplates(generated, provided map[string]string) map[string]string {
	out := make(map[string]string, len(generated)+len(provided))
	for lang, code := range generated {
		out[lang] = code
	}
	for lang, code := range provided {
		if strings.TrimSpace(code) != "" {
			out[lang] = code
		}
	}
	return out
}

// python

var pyTypes = map[string]string{
	"int": "int", "float": "float", "string": "str", "bool": "bool",
	"int[]": "List[int]", "float[]": "List[float]", "string[]": "List[str]",
}

func pyParse(t, line string) string {
	switch t {
	case "int":
		return fmt.Sprintf("int(%s.strip())", line)
	case "float":
		return fmt.Sprintf("float(%s.strip())", line)
	case "bool":
		return fmt.Sprintf("%s.strip().lower() == \"true\"", line)
	case "int[]":
		return fmt.Sprintf("list(map(int, %s.split()))", line)
	case "float[]":
		return fmt.Sprintf("list(map(float, %s.split()))", line)
	case "string[]":
		return fmt.Sprintf("%s.split()", line)
	default:
		return fmt.Sprintf("%s.rstrip(\"\\r\")", line)
	}
}

func pythonTemplate(fn string, params []models.TaskParam, out string) string {
	var b strings.Builder
	b.WriteString("from typing import List\n\n\n")

	args := make([]string, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		args[i] = fmt.Sprintf("%s: %s", p.Name, pyTypes[p.Type])
		names[i] = p.Name
	}
	fmt.Fprintf(&b, "def %s(%s) -> %s:\n", fn, strings.Join(args, ", "), pyTypes[out])
	b.WriteString("    # Write your code here\n    pass\n\n\n")

	b.WriteString("if __name__ == \"__main__\":\n")
	b.WriteString("    import sys\n\n")
	b.WriteString("    lines = sys.stdin.read().split(\"\\n\")\n")
	for i, p := range params {
		fmt.Fprintf(&b, "    %s = %s\n", p.Name, pyParse(p.Type, fmt.Sprintf("lines[%d]", i)))
	}
	fmt.Fprintf(&b, "    result = %s(%s)\n", fn, strings.Join(names, ", "))
	switch {
	case out == "bool":
		b.WriteString("    print(\"true\" if result else \"false\")\n")
	case isArrayType(out):
		b.WriteString("    print(\" \".join(map(str, result)))\n")
	default:
		b.WriteString("    print(result)\n")
	}
	return b.String()
}

// javascript

func jsParse(t, line string) string {
	switch t {
	case "int", "float":
		return fmt.Sprintf("Number(%s.trim())", line)
	case "bool":
		return fmt.Sprintf("%s.trim().toLowerCase() === \"true\"", line)
	case "int[]", "float[]":
		return fmt.Sprintf("%s.trim().split(/\\s+/).filter(Boolean).map(Number)", line)
	case "string[]":
		return fmt.Sprintf("%s.trim().split(/\\s+/).filter(Boolean)", line)
	default:
		return fmt.Sprintf("%s.replace(/\\r$/, \"\")", line)
	}
}

func javascriptTemplate(fn string, params []models.TaskParam, out string) string {
	var b strings.Builder
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	fmt.Fprintf(&b, "function %s(%s) {\n", fn, strings.Join(names, ", "))
	b.WriteString("  // Write your code here\n}\n\n")
	b.WriteString("const lines = require(\"fs\").readFileSync(0, \"utf8\").split(\"\\n\");\n")
	for i, p := range params {
		fmt.Fprintf(&b, "const %s = %s;\n", p.Name, jsParse(p.Type, fmt.Sprintf("lines[%d]", i)))
	}
	fmt.Fprintf(&b, "const result = %s(%s);\n", fn, strings.Join(names, ", "))
	b.WriteString("console.log(Array.isArray(result) ? result.join(\" \") : String(result));\n")
	return b.String()
}

// java

var javaTypes = map[string]string{
	"int": "int", "float": "double", "string": "String", "bool": "boolean",
	"int[]": "int[]", "float[]": "double[]", "string[]": "String[]",
}

var javaDefaults = map[string]string{
	"int": "0", "float": "0.0", "string": "\"\"", "bool": "false",
	"int[]": "new int[0]", "float[]": "new double[0]", "string[]": "new String[0]",
}

func javaParse(t string) string {
	switch t {
	case "int":
		return "Integer.parseInt(br.readLine().trim())"
	case "float":
		return "Double.parseDouble(br.readLine().trim())"
	case "bool":
		return "Boolean.parseBoolean(br.readLine().trim())"
	case "int[]":
		return "Arrays.stream(br.readLine().trim().split(\"\\\\s+\")).filter(s -> !s.isEmpty()).mapToInt(Integer::parseInt).toArray()"
	case "float[]":
		return "Arrays.stream(br.readLine().trim().split(\"\\\\s+\")).filter(s -> !s.isEmpty()).mapToDouble(Double::parseDouble).toArray()"
	case "string[]":
		return "Arrays.stream(br.readLine().trim().split(\"\\\\s+\")).filter(s -> !s.isEmpty()).toArray(String[]::new)"
	default:
		return "br.readLine()"
	}
}

func javaPrint(t string) string {
	switch t {
	case "int[]", "float[]":
		return "System.out.println(Arrays.stream(result).mapToObj(String::valueOf).collect(Collectors.joining(\" \")));"
	case "string[]":
		return "System.out.println(String.join(\" \", result));"
	default:
		return "System.out.println(result);"
	}
}

func javaTemplate(fn string, params []models.TaskParam, out string) string {
	var b strings.Builder
	b.WriteString("import java.io.*;\nimport java.util.*;\nimport java.util.stream.*;\n\n")
	b.WriteString("public class Main {\n")

	args := make([]string, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		args[i] = javaTypes[p.Type] + " " + p.Name
		names[i] = p.Name
	}
	fmt.Fprintf(&b, "    public static %s %s(%s) {\n", javaTypes[out], fn, strings.Join(args, ", "))
	b.WriteString("        // Write your code here\n")
	fmt.Fprintf(&b, "        return %s;\n    }\n\n", javaDefaults[out])

	b.WriteString("    public static void main(String[] args) throws IOException {\n")
	b.WriteString("        BufferedReader br = new BufferedReader(new InputStreamReader(System.in));\n")
	for _, p := range params {
		fmt.Fprintf(&b, "        %s %s = %s;\n", javaTypes[p.Type], p.Name, javaParse(p.Type))
	}
	fmt.Fprintf(&b, "        %s result = %s(%s);\n", javaTypes[out], fn, strings.Join(names, ", "))
	fmt.Fprintf(&b, "        %s\n", javaPrint(out))
	b.WriteString("    }\n}\n")
	return b.String()
}

// c++

var cppTypes = map[string]string{
	"int": "int", "float": "double", "string": "string", "bool": "bool",
	"int[]": "vector<int>", "float[]": "vector<double>", "string[]": "vector<string>",
}

var cppDefaults = map[string]string{
	"int": "0", "float": "0.0", "string": "\"\"", "bool": "false",
	"int[]": "{}", "float[]": "{}", "string[]": "{}",
}

func cppParse(t string) string {
	switch t {
	case "int":
		return "stoi(readLine())"
	case "float":
		return "stod(readLine())"
	case "bool":
		return "readLine() == \"true\""
	case "int[]":
		return "readVector<int>()"
	case "float[]":
		return "readVector<double>()"
	case "string[]":
		return "readVector<string>()"
	default:
		return "readLine()"
	}
}

func cppTemplate(fn string, params []models.TaskParam, out string) string {
	var b strings.Builder
	b.WriteString("#include <bits/stdc++.h>\nusing namespace std;\n\n")

	args := make([]string, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		args[i] = cppTypes[p.Type] + " " + p.Name
		names[i] = p.Name
	}
	fmt.Fprintf(&b, "%s %s(%s) {\n", cppTypes[out], fn, strings.Join(args, ", "))
	fmt.Fprintf(&b, "    // Write your code here\n    return %s;\n}\n\n", cppDefaults[out])

	b.WriteString("string readLine() {\n    string s;\n    getline(cin, s);\n")
	b.WriteString("    if (!s.empty() && s.back() == '\\r') s.pop_back();\n    return s;\n}\n\n")
	b.WriteString("template <typename T>\nvector<T> readVector() {\n    stringstream ss(readLine());\n")
	b.WriteString("    vector<T> v;\n    T x;\n    while (ss >> x) v.push_back(x);\n    return v;\n}\n\n")

	b.WriteString("int main() {\n")
	for _, p := range params {
		fmt.Fprintf(&b, "    %s %s = %s;\n", cppTypes[p.Type], p.Name, cppParse(p.Type))
	}
	fmt.Fprintf(&b, "    %s result = %s(%s);\n", cppTypes[out], fn, strings.Join(names, ", "))
	switch {
	case out == "bool":
		b.WriteString("    cout << (result ? \"true\" : \"false\") << endl;\n")
	case isArrayType(out):
		b.WriteString("    for (size_t i = 0; i < result.size(); i++) {\n")
		b.WriteString("        if (i) cout << \" \";\n        cout << result[i];\n    }\n    cout << endl;\n")
	default:
		b.WriteString("    cout << result << endl;\n")
	}
	b.WriteString("    return 0;\n}\n")
	return b.String()
}

// go

var goTypes = map[string]string{
	"int": "int", "float": "float64", "string": "string", "bool": "bool",
	"int[]": "[]int", "float[]": "[]float64", "string[]": "[]string",
}

var goDefaults = map[string]string{
	"int": "0", "float": "0", "string": "\"\"", "bool": "false",
	"int[]": "nil", "float[]": "nil", "string[]": "nil",
}

func goParse(t string) string {
	switch t {
	case "int":
		return "atoi(readLine())"
	case "float":
		return "atof(readLine())"
	case "bool":
		return "strings.TrimSpace(readLine()) == \"true\""
	case "int[]":
		return "parseInts(readLine())"
	case "float[]":
		return "parseFloats(readLine())"
	case "string[]":
		return "strings.Fields(readLine())"
	default:
		return "readLine()"
	}
}

// The helpers always reference strconv so the import list stays valid for
// every signature.
const goHelpers = `var reader = bufio.NewReader(os.Stdin)

func readLine() string {
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInts(s string) []int {
	var out []int
	for _, f := range strings.Fields(s) {
		out = append(out, atoi(f))
	}
	return out
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, f := range strings.Fields(s) {
		out = append(out, atof(f))
	}
	return out
}
`

func goTemplate(fn string, params []models.TaskParam, out string) string {
	var b strings.Builder
	b.WriteString("package main\n\nimport (\n\t\"bufio\"\n\t\"fmt\"\n\t\"os\"\n\t\"strconv\"\n\t\"strings\"\n)\n\n")

	args := make([]string, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		args[i] = p.Name + " " + goTypes[p.Type]
		names[i] = p.Name
	}
	fmt.Fprintf(&b, "func %s(%s) %s {\n", fn, strings.Join(args, ", "), goTypes[out])
	fmt.Fprintf(&b, "\t// Write your code here\n\treturn %s\n}\n\n", goDefaults[out])
	b.WriteString(goHelpers)
	b.WriteString("\nfunc main() {\n")
	for _, p := range params {
		fmt.Fprintf(&b, "\t%s := %s\n", p.Name, goParse(p.Type))
	}
	fmt.Fprintf(&b, "\tresult := %s(%s)\n", fn, strings.Join(names, ", "))
	if isArrayType(out) {
		b.WriteString("\tfmt.Println(strings.Trim(fmt.Sprint(result), \"[]\"))\n")
	} else {
		b.WriteString("\tfmt.Println(result)\n")
	}
	b.WriteString("}\n")
	return b.String()
}
