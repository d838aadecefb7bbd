package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/panelsrc"
	"github.com/abhisek/oncomark/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single marker panel",
	Example: "  oncomark classify --he4 180 --afp 6 --ca199 22\n" +
		"  oncomark classify --patient Alice --he4 180 --afp 6 --ca199 22 --format json",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		rec, err := recordFromFlags(cmd)
		if err != nil {
			return err
		}

		rep := report.Build(report.NewRunID(), env.engine, rec, env.settings.Top)
		if err := env.emit(rep); err != nil {
			return err
		}
		if rep.Error != "" {
			return errors.New(rep.Error)
		}
		return nil
	},
}

func init() {
	addPanelFlags(classifyCmd)
}

// markerFlags maps each marker to its flag name.
var markerFlags = map[marker.Type]string{
	marker.HE4:   "he4",
	marker.AFP:   "afp",
	marker.CA199: "ca199",
}

func addPanelFlags(c *cobra.Command) {
	c.Flags().String("patient", "", "Patient label shown in the output")
	for _, m := range marker.All() {
		c.Flags().Float64(markerFlags[m], 0, m.String()+" reading in "+m.Unit())
	}
}

// recordFromFlags reads the panel flags. A marker flag that was not given is
// left out of the panel rather than defaulted to zero.
func recordFromFlags(cmd *cobra.Command) (panelsrc.Record, error) {
	patient, _ := cmd.Flags().GetString("patient")
	panel := make(marker.Panel, 3)
	for _, m := range marker.All() {
		name := markerFlags[m]
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(name)
		if err != nil {
			return panelsrc.Record{}, err
		}
		panel[m] = v
	}

	return panelsrc.NewRecord(patient, panel), nil
}

// panelError reports whether err came from an unscoreable panel.
func panelError(err error) bool {
	var ipe *classifier.InvalidPanelError
	return errors.As(err, &ipe)
}
