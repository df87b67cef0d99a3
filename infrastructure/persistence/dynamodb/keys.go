package dynamodb

import (
	"fmt"

	"parkwise/infrastructure/persistence/store"
)

// Partition and sort key layout of the parking table. These strings are the
// persisted contract; changing one orphans existing data.
const (
	buildingRegistryPK = "BUILDING"
	officeRegistryPK   = "OFFICE"
	emailIndexPK       = "USER"
	profileSK          = "PROFILE"

	floorInfoPrefix = "FLOORINFO#"
	vehiclePrefix   = "VEHICLE#"
	parkingPrefix   = "PARKING#"
	officePrefix    = "DETAILS#"
	buildingPrefix  = "BUILDING#"
)

func buildingPK(buildingID string) string {
	return "BUILDING#" + buildingID
}

func userPK(userID string) string {
	return "USER#" + userID
}

// BuildingKey addresses a building in the registry.
func BuildingKey(buildingID string) store.Key {
	return store.Key{PK: buildingRegistryPK, SK: buildingPrefix + buildingID}
}

// FloorKey addresses a floor's info item.
func FloorKey(buildingID string, floorNumber int) store.Key {
	return store.Key{PK: buildingPK(buildingID), SK: fmt.Sprintf("%s%d", floorInfoPrefix, floorNumber)}
}

// SlotKey addresses a slot.
func SlotKey(buildingID string, floorNumber, slotID int) store.Key {
	return store.Key{PK: buildingPK(buildingID), SK: fmt.Sprintf("FLOOR#%d#SLOT#%d", floorNumber, slotID)}
}

func slotPrefix(floorNumber int) string {
	return fmt.Sprintf("FLOOR#%d#SLOT#", floorNumber)
}

// OfficeKey addresses an office in the registry.
func OfficeKey(officeID string) store.Key {
	return store.Key{PK: officeRegistryPK, SK: officePrefix + officeID}
}

// EmailKey addresses the email uniqueness anchor.
func EmailKey(email string) store.Key {
	return store.Key{PK: emailIndexPK, SK: email}
}

// ProfileKey addresses a user's profile.
func ProfileKey(userID string) store.Key {
	return store.Key{PK: userPK(userID), SK: profileSK}
}

// VehicleKey addresses a user's vehicle.
func VehicleKey(userID, numberplate string) store.Key {
	return store.Key{PK: userPK(userID), SK: vehiclePrefix + numberplate}
}

// ParkingKey addresses a parking record by its start time.
func ParkingKey(userID string, startTime int64) store.Key {
	return store.Key{PK: userPK(userID), SK: fmt.Sprintf("%s%d", parkingPrefix, startTime)}
}

// BillKey addresses a monthly bill.
func BillKey(userID string, year, month int) store.Key {
	return store.Key{PK: userPK(userID), SK: fmt.Sprintf("BILL#%d#%d", year, month)}
}
