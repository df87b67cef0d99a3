package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"parkwise/application/dto"
	"parkwise/pkg/utils"
)

func (a *app) buildingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Provision buildings",
	}

	var name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuildingAdd(cmd, dto.AddBuildingRequest{BuildingName: name})
		},
	}
	add.Flags().StringVar(&name, "name", "", "building name")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List buildings with their capacity",
		Args:  cobra.NoArgs,
		RunE:  a.runBuildingList,
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) runBuildingAdd(cmd *cobra.Command, req dto.AddBuildingRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	building, err := b.Buildings.AddBuilding(ctx, req)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(building); ok {
		return err
	}
	a.printSuccess("Building created")
	a.printKeyValue("ID", building.BuildingID)
	a.printKeyValue("Name", building.Name)
	return nil
}

func (a *app) runBuildingList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	buildings, err := b.Buildings.GetBuildings(ctx)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(buildings); ok {
		return err
	}
	if len(buildings) == 0 {
		a.printWarn("No buildings")
		return nil
	}
	a.printHeader("%-36s  %-24s %6s %6s %9s", "ID", "NAME", "FLOORS", "SLOTS", "AVAILABLE")
	for _, building := range buildings {
		fmt.Fprintf(a.out, "%-36s  %-24s %6d %6d %9d\n",
			building.BuildingID, building.Name, building.TotalFloors, building.TotalSlots, building.AvailableSlots)
	}
	return nil
}
