package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	FoodItems *FoodItemRepository
	FoodLog   *FoodLogStore
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		FoodItems: NewFoodItemRepository(database),
		FoodLog:   NewFoodLogStore(database),
	}
}
