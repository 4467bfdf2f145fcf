package store

// ActiveSessionsQuery lists sessions of the ERP application and Business
// Insight clients bound to the mas500_app database. Sessions matching neither
// client are filtered out. The text is fixed and takes no parameters.
const ActiveSessionsQuery = `
DECLARE @_DBName VARCHAR(255) = 'mas500_app';

WITH CTE AS (
    SELECT
        login_name AS Username,
        host_name AS workstation,
        login_time,
        last_request_start_time,
        CASE
            WHEN database_id = DB_ID(@_DBName) AND program_name LIKE 'Sage 500 ERP/App%' THEN 'X'
            ELSE ' '
        END AS AppUser,
        CASE
            WHEN database_id = DB_ID(@_DBName) AND program_name LIKE 'Sage 500 ERP/Business Insight%' THEN 'X'
            ELSE ' '
        END AS BIUser
    FROM
        sys.dm_exec_sessions WITH (NOLOCK)
)
SELECT
    Username,
    workstation,
    login_time,
    last_request_start_time AS Last_Activity,
    AppUser,
    BIUser
FROM
    CTE
WHERE
    AppUser <> ' ' OR BIUser <> ' ';
`
