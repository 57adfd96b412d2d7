package validators

import "go.mongodb.org/mongo-driver/bson"

const datePattern = `^\d{4}-\d{2}-\d{2}$`

var ItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"category",
			"serial_number",
			"status",
			"reservations",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"category": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"serial_number": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"checked-out",
					"maintenance",
					"retired",
				},
			},

			"checked_out_to": bson.M{
				"bsonType": "string",
			},

			"checked_out_date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"due_back": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"purchase_date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"purchase_price": bson.M{
				"bsonType": "string",
			},

			"salvage_value": bson.M{
				"bsonType": "string",
			},

			"useful_life_months": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  600,
			},

			"reservations": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "start", "end"},
					"properties": bson.M{
						"id": bson.M{
							"bsonType": "string",
						},
						"start": bson.M{
							"bsonType": "string",
							"pattern":  datePattern,
						},
						"end": bson.M{
							"bsonType": "string",
							"pattern":  datePattern,
						},
						"project": bson.M{
							"bsonType": "string",
						},
						"user": bson.M{
							"bsonType": "string",
						},
						"location": bson.M{
							"bsonType": "string",
						},
						"created_at": bson.M{
							"bsonType": "date",
						},
					},
				},
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
