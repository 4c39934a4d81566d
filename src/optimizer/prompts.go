package optimizer

// Stage prompts. The field glossaries and analysis points are part of the
// pipeline contract: the model is told exactly what every Snapshot field means
// before being asked to analyze them.

const analysisSystemPrompt = "You are an expert in DAO (decentralized autonomous organization) governance proposals."

const analysisPromptTemplate = `
As a DAO governance proposal expert, analyze this DAO data obtained from the DAO governance platform Snapshot.

DAO Info:
%s

Key components in DAO Info:
'id': Snapshot space ID for the DAO
'name': The display name of the DAO
'about': Contains voting information for the DAO
'avatar': A link to the DAO's logo/avatar image
'network': A number given by Snapshot representing which blockchain network the DAO is in
'symbol': The governance token symbol
'strategies': Defines how voting power is calculated containing 'name' which is the name of the strategy and 'params' which are the parameters including 'symbol' which is the governance token symbol, 'address' which is the token address and 'decimals' which is the number of decimal places the token can be divided into
'admins': Contains the admin crypto wallet address
'moderators': Contains who the moderators are
'members': Contains who the members are
'filters': Contains voting rules including 'minScore' which is the minimum voting power required and 'onlyMembers' which determines if voting is or is not restricted to members only
'plugins': Contains configuration of additional plugins

Historical Proposals:
%s

Key components in Historical Proposals:
'id': Unique identifier for the proposal
'title': Title of the proposal
'body': Full proposal text/content
'choices': Array of voting options/choices
'start': Start Unix format timestamp for voting
'end': End Unix format timestamp for voting
'snapshot': Block number for the snapshot
'state': Current state of the proposal if it is still active or closed
'author': Crypto wallet address of the proposal creator
'created': Unix format timestamp when proposal was created
'scores': Array of vote counts for each corresponding options/choices in 'choices'
'scores_total': Total votes cast

Based on this data, do a comprehensive analysis for each of the following points:
1. Analyze DAO goals and community preferences
2. Study successful vs failed proposals
3. Analyze successful proposal titles and patterns
4. Identify optimal proposal structure and language (eg. average proposal length, common sections used etc) of successful proposals
5. Check for potential contradictions with other proposals
6. Assess security risks and governance attack vectors
7. Evaluate potential governance mistakes to avoid
8. Consider harmonious proposal combinations
9. Evaluate optimal voting duration of successful proposals

Output:
The comprehensive analysis done above of the DAO data. DO NOT mention examples of any protocols or projects in the output analysis.
`

const translationSystemPrompt = "You are a language detection and translation expert."

const translationPromptTemplate = `
Detect the language of this text and if it's not English, translate it to English.
If this text is in English, then output the exact same text word for word:
%s
`

const optimizeSystemPrompt = "You are an expert in DAO (decentralized autonomous organization) governance and proposal optimization."

const optimizePromptTemplate = `
As a DAO governance proposal optimization expert, optimize the initial proposal below based on the DAO data analysis obtained from the DAO platform Snapshot to obtain a higher passing rate.

Initial Proposal:
%s

DAO Data Analysis:
%s

In addition, for the optimized proposal use clear, professional language that balances technical and non-technical understanding.

Output:
1. An optimized version of the initial proposal based on the DAO data analysis
2. A bullet-point list of all changes and recommendations made

Keep the output focused only on the optimized proposal and the list of changes/recommendations. Do not output anything else.
`
