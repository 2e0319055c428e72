package validator

func CreateAccount(accounts Lookup) Chain {
	return Chain{
		Shape("email", emailSchema, MsgInvalidEmail),
		Unique("email", accounts, MsgEmailTaken),
		Shape("password", passwordSchema, MsgInvalidPassword),
	}
}

func CreateAccessToken() Chain {
	return Chain{
		Shape("email", emailSchema, MsgInvalidEmail),
		Shape("password", passwordSchema, MsgInvalidPassword),
	}
}
