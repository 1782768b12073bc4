package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"staybook/pkg/model"
)

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"host_id",
			"title",
			"city",
			"city_key",
			"price_per_night",
			"photo_urls",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 120,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"city_key": bson.M{
				"bsonType":  "string",
				"minLength": 2,
			},

			"price_per_night": bson.M{
				"bsonType": "long",
				"minimum":  1,
				"maximum":  int64(model.MaxPricePerNight),
			},

			"max_guests": bson.M{
				"bsonType": bson.A{"int", "long"},
				"minimum":  0,
				"maximum":  50,
			},

			"photo_urls": bson.M{
				"bsonType": "array",
				"maxItems": 20,
				"items":    bson.M{"bsonType": "string"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
