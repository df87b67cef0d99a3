package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"parkwise/application/dto"
	"parkwise/pkg/utils"
)

func (a *app) floorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floor",
		Short: "Provision floors and their slots",
	}

	var buildingID string
	var number int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a floor to a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFloorAdd(cmd, buildingID, dto.AddFloorRequest{FloorNumber: number})
		},
	}
	add.Flags().StringVar(&buildingID, "building", "", "building id")
	add.Flags().IntVar(&number, "number", 0, "floor number")
	_ = add.MarkFlagRequired("building")
	_ = add.MarkFlagRequired("number")

	var listBuilding string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the floors of a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFloorList(cmd, listBuilding)
		},
	}
	list.Flags().StringVar(&listBuilding, "building", "", "building id")
	_ = list.MarkFlagRequired("building")

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) runFloorAdd(cmd *cobra.Command, buildingID string, req dto.AddFloorRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	floor, err := b.Buildings.AddFloor(ctx, buildingID, req)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(floor); ok {
		return err
	}
	a.printSuccess("Floor %d added", floor.FloorNumber)
	a.printKeyValue("Building", floor.BuildingID)
	a.printKeyValue("Slots", floor.TotalSlots)
	return nil
}

func (a *app) runFloorList(cmd *cobra.Command, buildingID string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	floors, err := b.Buildings.GetFloors(ctx, buildingID)
	if err != nil {
		return err
	}
	if ok, err := a.printJSON(floors); ok {
		return err
	}
	a.printHeader("%5s %6s %9s  %s", "FLOOR", "SLOTS", "AVAILABLE", "OFFICE")
	for _, f := range floors {
		office := "-"
		if f.AssignedOffice != nil {
			office = *f.AssignedOffice
		}
		fmt.Fprintf(a.out, "%5d %6d %9d  %s\n", f.FloorNumber, f.TotalSlots, f.AvailableSlots, office)
	}
	return nil
}
