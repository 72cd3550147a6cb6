package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// caseInsensitive compares strings ignoring case; used for email and username.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// objectID parses a hex id. An unparsable id can never match a document, so
// callers treat !ok as not found.
func objectID(hex string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// versioned is the filter for an optimistic write.
func versioned(id primitive.ObjectID, version int64) bson.M {
	return bson.M{"_id": id, "version": version}
}

// byInsertion sorts on _id; ObjectIDs grow with creation time.
func byInsertion() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}
