package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"parkwise/application/dto"
	"parkwise/pkg/utils"
)

func (a *app) officeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "office",
		Short: "Provision offices",
	}

	var buildingID, name string
	var floor int
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an office on a free floor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOfficeAdd(cmd, buildingID, dto.AddOfficeRequest{OfficeName: name, FloorNumber: floor})
		},
	}
	add.Flags().StringVar(&buildingID, "building", "", "building id")
	add.Flags().StringVar(&name, "name", "", "office name")
	add.Flags().IntVar(&floor, "floor", 0, "floor number")
	for _, f := range []string{"building", "name", "floor"} {
		_ = add.MarkFlagRequired(f)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List offices",
		Args:  cobra.NoArgs,
		RunE:  a.runOfficeList,
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) runOfficeAdd(cmd *cobra.Command, buildingID string, req dto.AddOfficeRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	office, err := b.Offices.AddOffice(ctx, buildingID, req)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(office); ok {
		return err
	}
	a.printSuccess("Office created")
	a.printKeyValue("ID", office.OfficeID)
	a.printKeyValue("Name", office.OfficeName)
	a.printKeyValue("Floor", office.FloorNumber)
	return nil
}

func (a *app) runOfficeList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	offices, err := b.Offices.GetOffices(ctx)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(offices); ok {
		return err
	}
	a.printHeader("%-36s  %-24s %-36s %5s", "ID", "NAME", "BUILDING", "FLOOR")
	for _, o := range offices {
		fmt.Fprintf(a.out, "%-36s  %-24s %-36s %5d\n", o.OfficeID, o.OfficeName, o.BuildingID, o.FloorNumber)
	}
	return nil
}
