package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/examsplit/pkg/question"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Print the marker label of each line of text",
	Long: `Classify each line of a text file (or standard input) the way split
classifies OCR lines, printing the label and the line separated by a tab.
Useful to check how a given exam's markers will be read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	RootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return classifyLines(in, cmd.OutOrStdout())
}

func classifyLines(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		if _, err := fmt.Fprintf(w, "%s\t%s\n", question.Classify(text), text); err != nil {
			return err
		}
	}
	return scanner.Err()
}
