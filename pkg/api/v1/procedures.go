package apiv1

const (
	AuthServiceName    = "republica.v1.AuthService"
	HouseServiceName   = "republica.v1.HouseService"
	MemberServiceName  = "republica.v1.MemberService"
	ExpenseServiceName = "republica.v1.ExpenseService"
)

// Procedure paths, one per RPC.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	HouseServiceCreateHouseProcedure     = "/" + HouseServiceName + "/CreateHouse"
	HouseServiceGetHouseProcedure        = "/" + HouseServiceName + "/GetHouse"
	HouseServiceListHousesProcedure      = "/" + HouseServiceName + "/ListHouses"
	HouseServiceDeleteHouseProcedure     = "/" + HouseServiceName + "/DeleteHouse"
	HouseServiceGetHouseSummaryProcedure = "/" + HouseServiceName + "/GetHouseSummary"

	MemberServiceCreateRoomProcedure       = "/" + MemberServiceName + "/CreateRoom"
	MemberServiceListRoomsProcedure        = "/" + MemberServiceName + "/ListRooms"
	MemberServiceDeleteRoomProcedure       = "/" + MemberServiceName + "/DeleteRoom"
	MemberServiceCreateMemberProcedure     = "/" + MemberServiceName + "/CreateMember"
	MemberServiceGetMemberProcedure        = "/" + MemberServiceName + "/GetMember"
	MemberServiceListMembersProcedure      = "/" + MemberServiceName + "/ListMembers"
	MemberServiceUpdateMemberProcedure     = "/" + MemberServiceName + "/UpdateMember"
	MemberServiceReassignRoomProcedure     = "/" + MemberServiceName + "/ReassignRoom"
	MemberServiceDeactivateMemberProcedure = "/" + MemberServiceName + "/DeactivateMember"

	ExpenseServiceCreateExpenseProcedure   = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure      = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceListExpensesProcedure    = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure   = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure   = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceRegisterPaymentProcedure = "/" + ExpenseServiceName + "/RegisterPayment"
	ExpenseServiceListPaymentsProcedure    = "/" + ExpenseServiceName + "/ListPayments"
)
