package validator

// CreateTodo checks a new item's title: a non-empty string not already in
// use.
func CreateTodo(todos Lookup) Chain {
	return Chain{
		Shape("title", titleSchema, MsgInvalidTitle),
		Unique("title", todos, MsgDuplicateEntry),
	}
}

// FetchTodo checks the identifier format only; it never touches the store.
func FetchTodo() Chain {
	return Chain{
		IDFormat(MsgInvalidID),
	}
}

// UpdateTodo checks the identifier format and the new title. Existence is
// left to the update itself, which reports a miss as not found.
func UpdateTodo() Chain {
	return Chain{
		IDFormat(MsgInvalidID),
		Shape("title", titleSchema, MsgEmptyTitle),
	}
}

// DeleteTodo checks the identifier format and that it names a stored item,
// so deleting an already-deleted id fails validation.
func DeleteTodo(todos Lookup) Chain {
	return Chain{
		IDFormat(MsgInvalidID),
		Exists(todos, MsgIDNotFound),
	}
}
